package cli

import (
	"fmt"

	"github.com/nauticalab/devenv-compose/internal/environment"
	"github.com/nauticalab/devenv-compose/internal/validation"
)

// Validate checks that the configuration files of an environment are installed
func (a *App) Validate(name string, verbose bool) error {
	env, err := a.resolver().Locate(name)
	if err != nil {
		return err
	}
	rec := env.Record

	fmt.Fprintf(a.Out, "🔍 Validating configuration for environment: %s\n", rec.Name)
	result := a.Validator.Validate(rec)
	a.printValidationResult(rec, result, verbose)

	if !result.IsValid {
		return &environment.ConfigurationError{Environment: rec.Name, Missing: result.MissingFiles()}
	}
	return nil
}

// printValidationResult prints the validation results in a user-friendly format
func (a *App) printValidationResult(rec environment.Record, result *validation.ValidationResult, verbose bool) {
	for _, err := range result.Errors {
		switch err.Type {
		case "missing_file":
			fmt.Fprintf(a.Out, "❌ Missing File: %s\n", err.Message)
		case "unreadable":
			fmt.Fprintf(a.Out, "❌ Unreadable File: %s\n", err.Message)
		default:
			fmt.Fprintf(a.Out, "❌ Error: %s\n", err.Message)
		}
		if verbose && err.File != err.FilePath {
			fmt.Fprintf(a.Out, "   Expected as: %s\n", err.File)
		}
	}

	if result.IsValid {
		fmt.Fprintf(a.Out, "✅ Configuration for %s is valid!\n", rec.Name)
		if verbose {
			fmt.Fprintf(a.Out, "   Checked %d files in %s\n", len(rec.Type.Files()), rec.InstallDir())
		}
		return
	}

	fmt.Fprintf(a.Out, "❌ Validation failed with %d errors\n", len(result.Errors))
	fmt.Fprintln(a.Out, "\n💡 Suggestions:")
	fmt.Fprintf(a.Out, "   • Install the %s configuration files into %s\n", rec.Type, rec.InstallDir())
	fmt.Fprintf(a.Out, "   • Files named %s<file> may be customized; they are installed as <file>\n", environment.CustomPrefix)
}
