package response

import (
	"time"

	"stock-notifier/internal/domain/notification"
	"stock-notifier/internal/domain/product"
	"stock-notifier/internal/usecase"
)

type ProductResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	TotalInventory int    `json:"totalInventory"`
	TotalVariants  int    `json:"totalVariants"`
}

type SendEmailResponse struct {
	Message    string            `json:"message"`
	Status     string            `json:"status"`
	OutOfStock []ProductResponse `json:"outOfStock"`
}

type RunResponse struct {
	FiredAt string `json:"firedAt"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

type ScheduleResponse struct {
	ID           string            `json:"id"`
	Schedule     string            `json:"schedule"`
	Email        string            `json:"email"`
	Products     []ProductResponse `json:"products"`
	State        string            `json:"state"`
	CreatedAt    string            `json:"createdAt"`
	NextFireAt   *string           `json:"nextFireAt"`
	LastRun      *RunResponse      `json:"lastRun"`
	FireCount    int               `json:"fireCount"`
	FailureCount int               `json:"failureCount"`
}

type ScheduleEmailResponse struct {
	Message  string            `json:"message"`
	Schedule *ScheduleResponse `json:"schedule"`
}

type ScheduleListResponse struct {
	Schedules []*ScheduleResponse `json:"schedules"`
}

type RunScheduleResponse struct {
	Message  string            `json:"message"`
	Schedule *ScheduleResponse `json:"schedule"`
}

func FromSendResult(r *usecase.SendResult) *SendEmailResponse {
	msg := "Email sent successfully"
	if r.Result == notification.ResultNothingToSend {
		msg = "No out-of-stock products, email not sent"
	}
	return &SendEmailResponse{
		Message:    msg,
		Status:     string(r.Result),
		OutOfStock: FromProducts(r.OutOfStock),
	}
}

func FromJobView(v *usecase.JobView) *ScheduleResponse {
	res := &ScheduleResponse{
		ID:           v.ID.String(),
		Schedule:     v.Expression,
		Email:        v.Recipient,
		Products:     FromProducts(v.Products),
		State:        string(v.State),
		CreatedAt:    v.CreatedAt.Format(time.RFC3339),
		FireCount:    v.FireCount,
		FailureCount: v.FailureCount,
	}
	if !v.NextFireAt.IsZero() {
		next := v.NextFireAt.Format(time.RFC3339)
		res.NextFireAt = &next
	}
	if v.LastRun != nil {
		res.LastRun = &RunResponse{
			FiredAt: v.LastRun.FiredAt.Format(time.RFC3339),
			Outcome: string(v.LastRun.Outcome),
			Error:   v.LastRun.Error,
		}
	}
	return res
}

func FromJobViews(views []*usecase.JobView) *ScheduleListResponse {
	items := make([]*ScheduleResponse, len(views))
	for i, v := range views {
		items[i] = FromJobView(v)
	}
	return &ScheduleListResponse{Schedules: items}
}

func FromProducts(ps []product.Snapshot) []ProductResponse {
	res := make([]ProductResponse, len(ps))
	for i, p := range ps {
		res[i] = ProductResponse{
			ID:             p.ID(),
			Title:          p.Title(),
			TotalInventory: p.TotalInventory(),
			TotalVariants:  p.TotalVariants(),
		}
	}
	return res
}
