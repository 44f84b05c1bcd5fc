package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Recognized input patterns. Kept as named constants so the acceptance
// rules live in one place.
const (
	PrivilegeNamePattern = `^[A-Z]+_PRIVILEGE$`
	RoleNamePattern      = `^ROLE_[A-Z]+$`
	EmailPattern         = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`
	EANCodePattern       = `^[0-9]{8}([0-9]{5})?$` // EAN-8 or EAN-13
)

var (
	privilegeNameRe = regexp.MustCompile(PrivilegeNamePattern)
	roleNameRe      = regexp.MustCompile(RoleNamePattern)
	emailRe         = regexp.MustCompile(EmailPattern)
	eanCodeRe       = regexp.MustCompile(EANCodePattern)
)

func PrivilegeName(name string) error {
	if !privilegeNameRe.MatchString(name) {
		return apperrors.BadArgument("privilege name %q must match %s", name, PrivilegeNamePattern)
	}
	return nil
}

func RoleName(name string) error {
	if !roleNameRe.MatchString(name) {
		return apperrors.BadArgument("role name %q must match %s", name, RoleNamePattern)
	}
	return nil
}

func Email(email string) error {
	if !emailRe.MatchString(email) {
		return apperrors.BadArgument("invalid email address %q", email)
	}
	return nil
}

func EANCode(code string) error {
	if !eanCodeRe.MatchString(code) {
		return apperrors.BadArgument("invalid EAN code %q", code)
	}
	return nil
}

// Password enforces minimum strength: at least 8 characters with an upper
// case letter, a lower case letter and a digit.
func Password(password string) error {
	if len(password) < 8 {
		return apperrors.BadArgument("password must be at least 8 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.BadArgument("password must contain an upper case letter, a lower case letter and a digit")
	}
	return nil
}

func NonBlank(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.BadArgument("%s must not be blank", field)
	}
	return nil
}

func PositivePrice(field string, price decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return apperrors.BadArgument("%s must be positive, got %s", field, price)
	}
	return nil
}

func PositiveQuantity(field string, quantity int64) error {
	if quantity <= 0 {
		return apperrors.BadArgument("%s must be positive, got %d", field, quantity)
	}
	return nil
}
