package model

import "time"

type CheckoutStep string

const (
	StepAwaitingName          CheckoutStep = "AWAITING_NAME"
	StepAwaitingPhone         CheckoutStep = "AWAITING_PHONE"
	StepAwaitingCity          CheckoutStep = "AWAITING_CITY"
	StepAwaitingDeliveryType  CheckoutStep = "AWAITING_DELIVERY_TYPE"
	StepAwaitingDeliveryPoint CheckoutStep = "AWAITING_DELIVERY_POINT"
	StepAwaitingPayment       CheckoutStep = "AWAITING_PAYMENT"
	StepAwaitingComment       CheckoutStep = "AWAITING_COMMENT"
	StepAwaitingConfirmation  CheckoutStep = "AWAITING_CONFIRMATION"
	StepCommitted             CheckoutStep = "COMMITTED"
	StepCancelled             CheckoutStep = "CANCELLED"
)

var stepOrder = map[CheckoutStep]int{
	StepAwaitingName:          0,
	StepAwaitingPhone:         1,
	StepAwaitingCity:          2,
	StepAwaitingDeliveryType:  3,
	StepAwaitingDeliveryPoint: 4,
	StepAwaitingPayment:       5,
	StepAwaitingComment:       6,
	StepAwaitingConfirmation:  7,
	StepCommitted:             8,
	StepCancelled:             8,
}

// Ordinal is the position of the step in the wizard, -1 for unknown steps.
func (s CheckoutStep) Ordinal() int {
	if o, ok := stepOrder[s]; ok {
		return o
	}
	return -1
}

func (s CheckoutStep) IsTerminal() bool {
	return s == StepCommitted || s == StepCancelled
}

// IsChoice reports whether the step only accepts a restricted-choice token.
func (s CheckoutStep) IsChoice() bool {
	return s == StepAwaitingDeliveryType || s == StepAwaitingPayment || s == StepAwaitingConfirmation
}

func (s CheckoutStep) String() string {
	return string(s)
}

type DeliveryType string

const (
	DeliveryBranch DeliveryType = "branch"
	DeliveryLocker DeliveryType = "locker"
)

func (d DeliveryType) Label() string {
	switch d {
	case DeliveryBranch:
		return "Branch"
	case DeliveryLocker:
		return "Parcel locker"
	}
	return string(d)
}

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash-on-delivery"
	PaymentPrepay         PaymentMethod = "prepay"
)

func (p PaymentMethod) Label() string {
	switch p {
	case PaymentCashOnDelivery:
		return "Cash on delivery"
	case PaymentPrepay:
		return "Prepayment"
	}
	return string(p)
}

// Confirmation tokens accepted at StepAwaitingConfirmation.
const (
	ChoiceConfirm = "confirm"
	ChoiceCancel  = "cancel"
)

// NoComment is stored when the user leaves the comment empty.
const NoComment = "-"

type InputKind string

const (
	InputText   InputKind = "text"
	InputChoice InputKind = "choice"
)

// Input is one inbound conversation event: free text or a button token.
type Input struct {
	Kind  InputKind
	Value string
}

func TextInput(v string) Input {
	return Input{Kind: InputText, Value: v}
}

func ChoiceInput(v string) Input {
	return Input{Kind: InputChoice, Value: v}
}

type CheckoutSession struct {
	UserID        int64         `json:"user_id"`
	Username      string        `json:"username"`
	Step          CheckoutStep  `json:"step"`
	FullName      string        `json:"full_name,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	City          string        `json:"city,omitempty"`
	DeliveryType  DeliveryType  `json:"delivery_type,omitempty"`
	DeliveryPoint string        `json:"delivery_point,omitempty"`
	Payment       PaymentMethod `json:"payment,omitempty"`
	Comment       string        `json:"comment,omitempty"`
	StartedAt     time.Time     `json:"started_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func NewCheckoutSession(userID int64, username string, now time.Time) *CheckoutSession {
	return &CheckoutSession{
		UserID:    userID,
		Username:  username,
		Step:      StepAwaitingName,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// User is the identity attached to every inbound event.
type User struct {
	ID       int64
	Username string
}
