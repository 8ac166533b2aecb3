// Package checkout holds the checkout wizard: the step sequence and the single
// transition function that validates input for the current step.
//
// Advance is pure. It never touches storage; the caller decides what to do
// with the returned Effect (render a prompt, build a preview from the live
// cart, commit the order, drop the session).
package checkout

import (
	"fmt"
	"strings"
	"unicode/utf8"
	"time"

	"storefront-checkout/internal/model"
)

// Phone numbers carry between MinPhoneDigits and MaxPhoneDigits (E.164) digits.
const (
	MinPhoneDigits = 9
	MaxPhoneDigits = 15
)

// Free-text limits in characters. They match the order columns the values
// are copied into at commit.
const (
	MaxNameLen          = 255
	MaxCityLen          = 128
	MaxDeliveryPointLen = 255
)

// Effect tells the caller what to do after a transition.
type Effect int

const (
	// EffectIgnored: input is not applicable to the current step. Nothing changes.
	EffectIgnored Effect = iota
	// EffectPrompt: field stored, ask for the next one.
	EffectPrompt
	// EffectPreview: the session entered StepAwaitingConfirmation.
	EffectPreview
	// EffectCommit: the user confirmed the order.
	EffectCommit
	// EffectCancel: the user cancelled at confirmation.
	EffectCancel
)

func (e Effect) String() string {
	switch e {
	case EffectIgnored:
		return "ignored"
	case EffectPrompt:
		return "prompt"
	case EffectPreview:
		return "preview"
	case EffectCommit:
		return "commit"
	case EffectCancel:
		return "cancel"
	}
	return fmt.Sprintf("effect(%d)", int(e))
}

// ValidationError is returned when input for the current step is malformed.
// The session is left untouched and the same step should be prompted again.
type ValidationError struct {
	Step   model.CheckoutStep
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input for %s: %s", e.Step, e.Reason)
}

// Advance applies one input to the session. On success it returns a copy of
// the session with the field stored and the step moved exactly one position
// forward. On a validation error or an ignored input the returned session is
// identical to the one passed in.
func Advance(sess model.CheckoutSession, in model.Input, now time.Time) (model.CheckoutSession, Effect, error) {
	if sess.Step.IsTerminal() {
		return sess, EffectIgnored, nil
	}
	if sess.Step.IsChoice() != (in.Kind == model.InputChoice) {
		return sess, EffectIgnored, nil
	}

	next := sess
	effect := EffectPrompt

	switch sess.Step {
	case model.StepAwaitingName:
		v, err := requireText(sess.Step, in.Value, "name", MaxNameLen)
		if err != nil {
			return sess, EffectIgnored, err
		}
		next.FullName = v
		next.Step = model.StepAwaitingPhone

	case model.StepAwaitingPhone:
		phone, err := NormalizePhone(in.Value)
		if err != nil {
			return sess, EffectIgnored, err
		}
		next.Phone = phone
		next.Step = model.StepAwaitingCity

	case model.StepAwaitingCity:
		v, err := requireText(sess.Step, in.Value, "city", MaxCityLen)
		if err != nil {
			return sess, EffectIgnored, err
		}
		next.City = v
		next.Step = model.StepAwaitingDeliveryType

	case model.StepAwaitingDeliveryType:
		d := model.DeliveryType(in.Value)
		if d != model.DeliveryBranch && d != model.DeliveryLocker {
			return sess, EffectIgnored, nil
		}
		next.DeliveryType = d
		next.Step = model.StepAwaitingDeliveryPoint

	case model.StepAwaitingDeliveryPoint:
		v, err := requireText(sess.Step, in.Value, "delivery point", MaxDeliveryPointLen)
		if err != nil {
			return sess, EffectIgnored, err
		}
		next.DeliveryPoint = v
		next.Step = model.StepAwaitingPayment

	case model.StepAwaitingPayment:
		p := model.PaymentMethod(in.Value)
		if p != model.PaymentCashOnDelivery && p != model.PaymentPrepay {
			return sess, EffectIgnored, nil
		}
		next.Payment = p
		next.Step = model.StepAwaitingComment

	case model.StepAwaitingComment:
		next.Comment = NormalizeComment(in.Value)
		next.Step = model.StepAwaitingConfirmation
		effect = EffectPreview

	case model.StepAwaitingConfirmation:
		switch in.Value {
		case model.ChoiceConfirm:
			next.Step = model.StepCommitted
			effect = EffectCommit
		case model.ChoiceCancel:
			next.Step = model.StepCancelled
			effect = EffectCancel
		default:
			return sess, EffectIgnored, nil
		}

	default:
		return sess, EffectIgnored, fmt.Errorf("unknown checkout step %q", sess.Step)
	}

	next.UpdatedAt = now
	return next, effect, nil
}

// NormalizePhone keeps digits and a single leading plus sign. The result must
// contain between MinPhoneDigits and MaxPhoneDigits digits.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	var b strings.Builder
	digits := 0
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			digits++
		}
	}
	if digits < MinPhoneDigits {
		return "", &ValidationError{
			Step:   model.StepAwaitingPhone,
			Reason: fmt.Sprintf("phone number must contain at least %d digits", MinPhoneDigits),
		}
	}
	if digits > MaxPhoneDigits {
		return "", &ValidationError{
			Step:   model.StepAwaitingPhone,
			Reason: fmt.Sprintf("phone number must contain at most %d digits", MaxPhoneDigits),
		}
	}
	if strings.HasPrefix(raw, "+") {
		return "+" + b.String(), nil
	}
	return b.String(), nil
}

// NormalizeComment trims the comment and stores model.NoComment when nothing
// is left.
func NormalizeComment(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return model.NoComment
	}
	return v
}

func requireText(step model.CheckoutStep, raw, field string, maxLen int) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", &ValidationError{Step: step, Reason: field + " must not be empty"}
	}
	if utf8.RuneCountInString(v) > maxLen {
		return "", &ValidationError{Step: step, Reason: fmt.Sprintf("%s must be at most %d characters", field, maxLen)}
	}
	return v, nil
}

// Prompt is the question asked while the session waits at step.
func Prompt(step model.CheckoutStep) string {
	switch step {
	case model.StepAwaitingName:
		return "Enter your first and last name:"
	case model.StepAwaitingPhone:
		return "Enter your phone number (for example: 0981234567):"
	case model.StepAwaitingCity:
		return "Enter your city:"
	case model.StepAwaitingDeliveryType:
		return "Choose delivery type:"
	case model.StepAwaitingDeliveryPoint:
		return "Enter the branch or parcel locker number or address:"
	case model.StepAwaitingPayment:
		return "Choose payment method:"
	case model.StepAwaitingComment:
		return "Comment (send - if none):"
	case model.StepAwaitingConfirmation:
		return "Confirm the order:"
	}
	return ""
}

// Choices lists the tokens accepted at a restricted-choice step.
func Choices(step model.CheckoutStep) []string {
	switch step {
	case model.StepAwaitingDeliveryType:
		return []string{string(model.DeliveryBranch), string(model.DeliveryLocker)}
	case model.StepAwaitingPayment:
		return []string{string(model.PaymentCashOnDelivery), string(model.PaymentPrepay)}
	case model.StepAwaitingConfirmation:
		return []string{model.ChoiceConfirm, model.ChoiceCancel}
	}
	return nil
}
