package usecase

//go:generate mockgen -source=notification.go -destination=../../tests/mock/usecase/notification.go -package=usecasemock

import (
	"context"
	"strings"

	"stock-notifier/internal/domain/notification"
	"stock-notifier/internal/domain/product"
)

type SendResult struct {
	Result     notification.Result
	Recipient  string
	OutOfStock []product.Snapshot
}

type NotificationUseCase interface {
	// SendOutOfStock filters products and sends immediately.
	SendOutOfStock(ctx context.Context, recipient string, products []product.Snapshot) (*SendResult, error)
}

type notificationUseCaseImpl struct {
	notifier Notifier
}

func NewNotificationUseCase(notifier Notifier) NotificationUseCase {
	return &notificationUseCaseImpl{notifier: notifier}
}

func (uc *notificationUseCaseImpl) SendOutOfStock(ctx context.Context, recipient string, products []product.Snapshot) (*SendResult, error) {
	if strings.TrimSpace(recipient) == "" {
		return nil, ErrEmptyRecipient
	}

	outOfStock := product.FilterOutOfStock(products)
	result, err := uc.notifier.Send(ctx, recipient, outOfStock)
	if err != nil {
		return nil, err
	}

	return &SendResult{
		Result:     result,
		Recipient:  recipient,
		OutOfStock: outOfStock,
	}, nil
}
