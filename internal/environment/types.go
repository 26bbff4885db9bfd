package environment

import (
	"fmt"
	"strings"
)

// Type identifies which configuration template set applies to an environment.
type Type string

const (
	TypeDrupal      Type = "drupal"
	TypeMagento2    Type = "magento2"
	TypeOroCommerce Type = "orocommerce"
	TypeSylius      Type = "sylius"
	TypeSymfony     Type = "symfony"
)

// CustomPrefix marks configuration files that users may override. The
// installer writes them under their de-prefixed name.
const CustomPrefix = "custom-"

// DefaultImageTag is used for DOCKER_PHP_IMAGE when no PHP version is configured.
const DefaultImageTag = "default"

// typeSpec describes everything that depends on the environment type.
type typeSpec struct {
	// files is the manifest of configuration files expected in the install directory
	files []string
	// imageTag formats the PHP image tag from a PHP version
	imageTag string
}

var commonFiles = []string{
	".env",
	"docker-compose.yml",
	CustomPrefix + "nginx.conf",
	CustomPrefix + "php.ini",
}

// allTypes lists every supported type in display order.
var allTypes = []Type{TypeDrupal, TypeMagento2, TypeOroCommerce, TypeSylius, TypeSymfony}

var typeTable = map[Type]typeSpec{
	TypeDrupal:      {files: commonFiles, imageTag: "%s"},
	TypeMagento2:    {files: withFiles(commonFiles, CustomPrefix+"varnish.vcl"), imageTag: "%s-magento"},
	TypeOroCommerce: {files: withFiles(commonFiles, "supervisord.conf"), imageTag: "%s-oro"},
	TypeSylius:      {files: commonFiles, imageTag: "%s"},
	TypeSymfony:     {files: commonFiles, imageTag: "%s"},
}

func init() {
	for _, t := range allTypes {
		if _, ok := typeTable[t]; !ok {
			panic(fmt.Sprintf("environment type %q has no entry in the type table", t))
		}
	}
	if len(typeTable) != len(allTypes) {
		panic("environment type table lists types that are not declared")
	}
}

func withFiles(base []string, extra ...string) []string {
	files := make([]string, 0, len(base)+len(extra))
	files = append(files, base...)
	return append(files, extra...)
}

// Types returns every supported environment type.
func Types() []Type {
	types := make([]Type, len(allTypes))
	copy(types, allTypes)
	return types
}

// ParseType converts a string into a supported Type.
func ParseType(s string) (Type, error) {
	t := Type(strings.TrimSpace(s))
	if _, ok := typeTable[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

// Valid reports whether t is one of the supported types.
func (t Type) Valid() bool {
	_, ok := typeTable[t]
	return ok
}

func (t Type) String() string {
	return string(t)
}

// Files returns the configuration filenames expected for this type.
// Unknown types expect nothing.
func (t Type) Files() []string {
	row, ok := typeTable[t]
	if !ok {
		return nil
	}
	files := make([]string, len(row.files))
	copy(files, row.files)
	return files
}

// ImageTag derives the PHP image tag from a PHP version.
func (t Type) ImageTag(phpVersion string) string {
	phpVersion = strings.TrimSpace(phpVersion)
	row, ok := typeTable[t]
	if !ok || phpVersion == "" {
		return DefaultImageTag
	}
	return fmt.Sprintf(row.imageTag, phpVersion)
}
