package config

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	derrors "git.home.luguber.info/inful/tapsite/internal/foundation/errors"
)

var validate = newValidator()

// newValidator reports fields by their YAML path, e.g. discovery.extension.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate normalizes enum spellings in place, then checks field rules.
func Validate(cfg *Config) error {
	policy, err := rowPolicyNormalizer.NormalizeWithError(string(cfg.Tabular.RowPolicy))
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryConfig, "invalid tabular.row_policy").Fatal().Build()
	}
	cfg.Tabular.RowPolicy = policy

	source, err := versionSourceNormalizer.NormalizeWithError(string(cfg.Version.Source))
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryConfig, "invalid version.source").Fatal().Build()
	}
	cfg.Version.Source = source

	level, err := logLevelNormalizer.NormalizeWithError(string(cfg.Logging.Level))
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryConfig, "invalid logging.level").Fatal().Build()
	}
	cfg.Logging.Level = level

	format, err := logFormatNormalizer.NormalizeWithError(string(cfg.Logging.Format))
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryConfig, "invalid logging.format").Fatal().Build()
	}
	cfg.Logging.Format = format

	if strings.TrimSpace(cfg.Discovery.Token) == "" {
		return derrors.ConfigError("discovery.token must not be empty").Build()
	}
	if strings.ContainsRune(cfg.Output.Directory, 0) {
		return derrors.ConfigError("output.directory contains a NUL byte").Build()
	}
	return structRules(cfg)
}

func structRules(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return derrors.WrapError(err, derrors.CategoryConfig, "invalid configuration").Fatal().Build()
	}
	fe := fieldErrs[0]
	// Namespace is "Config.<yaml path>"; the root type name is dropped.
	_, field, _ := strings.Cut(fe.Namespace(), ".")
	b := derrors.ConfigError("invalid " + field).
		WithContext("rule", fe.Tag()).
		WithContext("value", fe.Value())
	if fe.Param() != "" {
		b = b.WithContext("param", fe.Param())
	}
	return b.Build()
}
