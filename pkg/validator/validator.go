package validator

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
var slugRegex = regexp.MustCompile(`^[a-z0-9-]+$`)
var otpRegex = regexp.MustCompile(`^[0-9]{6}$`)

func ValidateRegister(email, username, password, confirmPassword string, allowedDomains []string) ValidationErrors {
	errs := make(ValidationErrors)

	// Email
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	} else if !emailDomainAllowed(email, allowedDomains) {
		errs.Add("email", fmt.Sprintf("Only institutional email IDs are allowed: @%s", strings.Join(allowedDomains, ", @")))
	}

	// Username
	username = strings.TrimSpace(username)
	if username == "" {
		errs.Add("username", "Username is required")
	} else if len(username) < 3 {
		errs.Add("username", "Username must be at least 3 characters")
	} else if len(username) > 50 {
		errs.Add("username", "Username is too long")
	} else if !usernameRegex.MatchString(username) {
		errs.Add("username", "Username can only contain letters, numbers, _ and -")
	}

	// Password
	validatePassword(password, errs)
	if _, ok := errs["password"]; !ok && password != confirmPassword {
		errs.Add("confirm_password", "Passwords do not match")
	}

	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}

	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidateOTP(code string) ValidationErrors {
	errs := make(ValidationErrors)

	code = strings.TrimSpace(code)
	if code == "" {
		errs.Add("otp", "OTP is required")
	} else if !otpRegex.MatchString(code) {
		errs.Add("otp", "OTP must be exactly 6 digits")
	}

	return errs
}

func ValidateListing(title, description, category string, price float64, condition string) ValidationErrors {
	errs := make(ValidationErrors)

	title = strings.TrimSpace(title)
	if title == "" {
		errs.Add("title", "Title is required")
	} else if len(title) > 200 {
		errs.Add("title", "Title is too long")
	}

	if strings.TrimSpace(description) == "" {
		errs.Add("description", "Description is required")
	}

	if strings.TrimSpace(category) == "" {
		errs.Add("category", "Category is required")
	}

	if price < 0 {
		errs.Add("price", "Price cannot be negative")
	}

	if condition != "NEW" && condition != "LIKE_NEW" && condition != "USED" {
		errs.Add("condition", "Condition must be NEW, LIKE_NEW, or USED")
	}

	return errs
}

func ValidateCategory(name, slug string) ValidationErrors {
	errs := make(ValidationErrors)

	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "Category name is required")
	} else if len(name) > 100 {
		errs.Add("name", "Category name is too long")
	}

	slug = strings.TrimSpace(slug)
	if slug != "" && !slugRegex.MatchString(slug) {
		errs.Add("slug", "Slug can only contain lowercase letters, numbers and dashes")
	}

	return errs
}

func emailDomainAllowed(email string, allowedDomains []string) bool {
	email = strings.ToLower(email)
	for _, domain := range allowedDomains {
		if strings.HasSuffix(email, "@"+strings.ToLower(domain)) {
			return true
		}
	}
	return false
}

func validatePassword(password string, errs ValidationErrors) {
	if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters")
		return
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	missing := []string{}
	if !hasUpper {
		missing = append(missing, "one uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "one lowercase letter")
	}
	if !hasDigit {
		missing = append(missing, "one number")
	}

	if len(missing) > 0 {
		errs.Add("password", fmt.Sprintf("Password must contain at least %s", strings.Join(missing, ", ")))
	}
}
