package service

import (
	"context"
	"errors"
	"fmt"
	"storefront-checkout/internal/checkout"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/notify"
	"storefront-checkout/internal/repository"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Step outcomes reported to the conversation front-end.
const (
	OutcomePrompt    = "prompt"
	OutcomeRejected  = "rejected"
	OutcomeIgnored   = "ignored"
	OutcomePreview   = "preview"
	OutcomeCommitted = "committed"
	OutcomeCancelled = "cancelled"
	OutcomeCartEmpty = "cart_empty"
)

type CheckoutService interface {
	// Start begins a new checkout, replacing any session in progress.
	Start(ctx context.Context, user model.User) (*dto.StepResponse, error)
	Current(ctx context.Context, user model.User) (*dto.StepResponse, error)
	Handle(ctx context.Context, user model.User, in model.Input) (*dto.StepResponse, error)
}

type checkoutServiceImpl struct {
	sessions repository.SessionRepository
	cart     CartService
	orders   OrderService
	notifier notify.Notifier
	currency string
	logger   *zap.Logger
	now      func() time.Time
}

func NewCheckoutService(
	sessions repository.SessionRepository,
	cart CartService,
	orders OrderService,
	notifier notify.Notifier,
	currency string,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		sessions: sessions,
		cart:     cart,
		orders:   orders,
		notifier: notifier,
		currency: currency,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *checkoutServiceImpl) Start(ctx context.Context, user model.User) (*dto.StepResponse, error) {
	view, err := s.cart.View(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if view.Empty() {
		return nil, ErrEmptyCart
	}

	sess := model.NewCheckoutSession(user.ID, user.Username, s.now())
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save checkout session: %w", err)
	}

	s.logger.Debug("checkout started", zap.Int64("user_id", user.ID))
	return stepResponse(sess.Step, OutcomePrompt), nil
}

func (s *checkoutServiceImpl) Current(ctx context.Context, user model.User) (*dto.StepResponse, error) {
	sess, err := s.loadSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if sess.Step != model.StepAwaitingConfirmation {
		return stepResponse(sess.Step, OutcomePrompt), nil
	}

	resp := stepResponse(sess.Step, OutcomePreview)
	if resp.Preview, err = s.preview(ctx, sess); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *checkoutServiceImpl) Handle(ctx context.Context, user model.User, in model.Input) (*dto.StepResponse, error) {
	sess, err := s.loadSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	next, effect, err := checkout.Advance(*sess, in, s.now())
	if err != nil {
		var verr *checkout.ValidationError
		if errors.As(err, &verr) {
			resp := stepResponse(sess.Step, OutcomeRejected)
			resp.Error = verr.Reason
			return resp, nil
		}
		return nil, err
	}

	switch effect {
	case checkout.EffectIgnored:
		return stepResponse(sess.Step, OutcomeIgnored), nil

	case checkout.EffectPrompt:
		if err := s.sessions.Save(ctx, &next); err != nil {
			return nil, fmt.Errorf("save checkout session: %w", err)
		}
		return stepResponse(next.Step, OutcomePrompt), nil

	case checkout.EffectPreview:
		if err := s.sessions.Save(ctx, &next); err != nil {
			return nil, fmt.Errorf("save checkout session: %w", err)
		}
		resp := stepResponse(next.Step, OutcomePreview)
		if resp.Preview, err = s.preview(ctx, &next); err != nil {
			return nil, err
		}
		return resp, nil

	case checkout.EffectCancel:
		if err := s.sessions.Delete(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("delete checkout session: %w", err)
		}
		s.logger.Debug("checkout cancelled", zap.Int64("user_id", user.ID))
		return stepResponse(next.Step, OutcomeCancelled), nil

	case checkout.EffectCommit:
		return s.commit(ctx, sess)
	}

	return nil, fmt.Errorf("unhandled checkout effect %s", effect)
}

// commit persists the order for a session at StepAwaitingConfirmation. The
// session survives an empty cart or a failed transaction so the user can
// confirm again.
func (s *checkoutServiceImpl) commit(ctx context.Context, sess *model.CheckoutSession) (*dto.StepResponse, error) {
	order, err := s.orders.Commit(ctx, sess)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			s.logger.Info("checkout confirmed with empty cart", zap.Int64("user_id", sess.UserID))
			return stepResponse(sess.Step, OutcomeCartEmpty), nil
		}
		s.logger.Error("order commit failed", zap.Int64("user_id", sess.UserID), zap.Error(err))
		return nil, fmt.Errorf("commit order: %w", err)
	}

	if err := s.sessions.Delete(ctx, sess.UserID); err != nil {
		s.logger.Warn("delete committed checkout session",
			zap.Int64("user_id", sess.UserID),
			zap.Uint("order_id", order.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("order committed",
		zap.Uint("order_id", order.ID),
		zap.Int64("user_id", order.UserID),
		zap.Int64("total", order.Total),
		zap.Int("items", len(order.Items)),
	)
	s.notifyOperators(ctx, order)

	resp := stepResponse(model.StepCommitted, OutcomeCommitted)
	resp.Order = ToOrderDTO(order, s.currency)
	return resp, nil
}

func (s *checkoutServiceImpl) notifyOperators(ctx context.Context, order *model.Order) {
	text, err := notify.RenderOrder(order, s.currency)
	if err != nil {
		s.logger.Error("render order notification", zap.Uint("order_id", order.ID), zap.Error(err))
		return
	}

	s.notifier.Notify(ctx, notify.Job{
		ID:           uuid.NewString(),
		OrderID:      order.ID,
		OriginChatID: order.UserID,
		Text:         text,
	})
}

// preview reads the live cart; the cart may have changed since checkout began.
func (s *checkoutServiceImpl) preview(ctx context.Context, sess *model.CheckoutSession) (*dto.Preview, error) {
	view, err := s.cart.View(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	return &dto.Preview{
		Items:         view.Items,
		Total:         view.Total,
		Currency:      view.Currency,
		FullName:      sess.FullName,
		Phone:         sess.Phone,
		City:          sess.City,
		DeliveryType:  sess.DeliveryType.Label(),
		DeliveryPoint: sess.DeliveryPoint,
		Payment:       sess.Payment.Label(),
		Comment:       sess.Comment,
	}, nil
}

func (s *checkoutServiceImpl) loadSession(ctx context.Context, userID int64) (*model.CheckoutSession, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("load checkout session: %w", err)
	}
	return sess, nil
}

func stepResponse(step model.CheckoutStep, outcome string) *dto.StepResponse {
	return &dto.StepResponse{
		Step:    step.String(),
		Outcome: outcome,
		Prompt:  checkout.Prompt(step),
		Choices: checkout.Choices(step),
	}
}
