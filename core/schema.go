package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Field patterns - compiled once at package init.
var (
	countryCodePattern = regexp.MustCompile(`^[A-Z]{2,4}$`)
	idCodePattern      = regexp.MustCompile(`^[A-Z0-9]{1,16}$`)
	platePattern       = regexp.MustCompile(`^[A-Z0-9-]{1,20}$`)
	vatPattern         = regexp.MustCompile(`^[A-Z0-9]{2,13}$`)
	isoDatePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isoDateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)
)

// Maximum lengths shared across entity fields.
const (
	MaxNameLength        = 20
	MaxDescriptionLength = 100
	MaxPlateLength       = 20
	MaxVATLength         = 13
	MinVATLength         = 2
)

// validate is the package-wide validator. Custom validators are registered
// once; entity decode functions call validate.Struct after strict decoding.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	mustRegister(v, "countrycode", func(fl validator.FieldLevel) bool {
		return countryCodePattern.MatchString(NormalizeCountryCode(fl.Field().String()))
	})
	mustRegister(v, "plate", func(fl validator.FieldLevel) bool {
		return platePattern.MatchString(NormalizePlate(fl.Field().String()))
	})
	mustRegister(v, "vatnum", func(fl validator.FieldLevel) bool {
		return vatPattern.MatchString(NormalizeVAT(fl.Field().String()))
	})
	mustRegister(v, "idcode", func(fl validator.FieldLevel) bool {
		return idCodePattern.MatchString(NormalizeIDCode(fl.Field().String()))
	})
	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		return ValidISODate(fl.Field().String())
	})
	mustRegister(v, "isodatetime", func(fl validator.FieldLevel) bool {
		return ValidISODateTime(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validator %q: %v", tag, err))
	}
}

// ValidISODate reports whether s is a real calendar date in YYYY-MM-DD form.
func ValidISODate(s string) bool {
	if !isoDatePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidISODateTime reports whether s is a real instant in
// YYYY-MM-DDTHH:MM:SSZ form.
func ValidISODateTime(s string) bool {
	if !isoDateTimePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02T15:04:05Z", s)
	return err == nil
}

// NormalizeCountryCode canonicalizes a country code for key comparison:
// surrounding whitespace stripped, upper-cased.
func NormalizeCountryCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizePlate canonicalizes a plate number: all whitespace removed,
// upper-cased. "aa 1232" and "AA1232" are the same plate.
func NormalizePlate(s string) string {
	return strings.ToUpper(stripSpace(s))
}

// NormalizeVAT canonicalizes a VAT number the same way as plates.
func NormalizeVAT(s string) string {
	return strings.ToUpper(stripSpace(s))
}

// NormalizeIDCode canonicalizes license and tachograph card identifiers.
func NormalizeIDCode(s string) string {
	return strings.ToUpper(stripSpace(s))
}

func stripSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// decodeStrict unmarshals raw into v rejecting unknown fields, so schema
// drift in a data source fails loudly instead of being silently dropped.
func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after record")
	}
	return nil
}

// Canonical serializes a constructed entity to its canonical JSON form.
// Field order follows the struct definition, so the output is byte-stable
// for the same logical value regardless of input field ordering.
func Canonical(entity any) ([]byte, error) {
	return json.Marshal(entity)
}
