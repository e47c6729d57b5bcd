package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/curio-ai/topic-platform/internal/model"
)

// Input bounds carried over from the public API contract.
const (
	MaxTopicLength    = 200
	MaxCommentLength  = 500
	MaxMessageLength  = 1000
	MinUsernameLength = 3
	MaxUsernameLength = 80
	MinPasswordLength = 6
)

// ValidateTopic validates a facts/quotes topic.
func ValidateTopic(topic string) error {
	if len(topic) == 0 {
		return errors.New("topic is required")
	}
	if utf8.RuneCountInString(topic) > MaxTopicLength {
		return errors.New("topic exceeds maximum length")
	}
	return nil
}

// ValidateComment validates the optional lookup comment.
func ValidateComment(comment string) error {
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return errors.New("comment exceeds maximum length")
	}
	return nil
}

// ValidateMessage validates a conversation message.
func ValidateMessage(message string) error {
	if len(message) == 0 {
		return errors.New("message is required")
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return errors.New("message exceeds maximum length")
	}
	if !utf8.ValidString(message) {
		return errors.New("message must be valid UTF-8")
	}
	return nil
}

// ValidateCategory validates a saved-item category.
func ValidateCategory(category model.Category) error {
	if category != model.CategoryFact && category != model.CategoryQuote {
		return errors.New(`category must be "fact" or "quote"`)
	}
	return nil
}

// ValidateFeature validates a trending feature filter.
func ValidateFeature(feature model.Feature) error {
	if feature != model.FeatureFacts && feature != model.FeatureQuotes {
		return errors.New(`feature must be "facts" or "quotes"`)
	}
	return nil
}

// ValidateRegistration validates a registration request.
func ValidateRegistration(req *model.RegisterRequest) error {
	if !strings.Contains(req.Email, "@") || len(req.Email) > 100 {
		return errors.New("a valid email is required")
	}
	if n := utf8.RuneCountInString(req.Username); n < MinUsernameLength || n > MaxUsernameLength {
		return errors.New("username must be 3-80 characters")
	}
	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}

// ValidateLogin validates a login request.
func ValidateLogin(req *model.LoginRequest) error {
	if req.Email == "" || req.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

// ValidateSaveItem validates a save-favourite request.
func ValidateSaveItem(req *model.SaveItemRequest) error {
	if err := ValidateCategory(req.Category); err != nil {
		return err
	}
	if len(req.Content) == 0 {
		return errors.New("content is required")
	}
	if len(req.Topic) == 0 {
		return errors.New("topic is required")
	}
	if utf8.RuneCountInString(req.Topic) > MaxTopicLength {
		return errors.New("topic exceeds maximum length")
	}
	return nil
}
