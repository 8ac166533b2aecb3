package service

import (
	"context"
	"errors"
	"fmt"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"

	"gorm.io/gorm"
)

type OrderService interface {
	// Commit turns the user's current cart into an order in one transaction.
	// Returns ErrEmptyCart when nothing is left to order.
	Commit(ctx context.Context, sess *model.CheckoutSession) (*model.Order, error)
	GetOrder(ctx context.Context, orderID uint) (*model.Order, error)
	// CountUserOrders is the number of orders the user has placed so far.
	CountUserOrders(ctx context.Context, userID int64) (int64, error)
}

type orderServiceImpl struct {
	db        *gorm.DB
	cartRepo  repository.CartRepository
	orderRepo repository.OrderRepository
}

func NewOrderService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
) OrderService {
	return &orderServiceImpl{
		db:        db,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
	}
}

func (s *orderServiceImpl) Commit(ctx context.Context, sess *model.CheckoutSession) (*model.Order, error) {
	if sess.Step != model.StepAwaitingConfirmation {
		return nil, fmt.Errorf("commit at step %s: %w", sess.Step, ErrNotConfirmable)
	}

	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines, err := s.cartRepo.Snapshot(ctx, tx, sess.UserID)
		if err != nil {
			return fmt.Errorf("snapshot cart: %w", err)
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		var total int64
		for _, line := range lines {
			total += line.Subtotal()
		}

		o := &model.Order{
			UserID:        sess.UserID,
			Username:      sess.Username,
			FullName:      sess.FullName,
			Phone:         sess.Phone,
			City:          sess.City,
			DeliveryType:  string(sess.DeliveryType),
			DeliveryPoint: sess.DeliveryPoint,
			Payment:       string(sess.Payment),
			Comment:       sess.Comment,
			Total:         total,
		}
		if err := s.orderRepo.Create(ctx, tx, o); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}

		items := make([]*model.OrderItem, len(lines))
		for i, line := range lines {
			items[i] = &model.OrderItem{
				OrderID:   o.ID,
				ProductID: line.ProductID,
				Title:     line.Title,
				Variant:   line.Variant,
				Price:     line.Price,
				Qty:       line.Qty,
			}
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
			return fmt.Errorf("store order items in db: %w", err)
		}

		if err := s.cartRepo.RemoveSnapshot(ctx, tx, sess.UserID, lines); err != nil {
			return fmt.Errorf("clear ordered cart entries: %w", err)
		}

		o.Items = items
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, fmt.Errorf("find order %d: %w", orderID, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("find order %d: %w", orderID, err)
	}
	return order, nil
}

func (s *orderServiceImpl) CountUserOrders(ctx context.Context, userID int64) (int64, error) {
	count, err := s.orderRepo.CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count orders of user %d: %w", userID, err)
	}
	return count, nil
}
