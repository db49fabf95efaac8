package model

import "time"

// Plans
const (
	PlanMonthly   = "monthly"
	PlanQuarterly = "quarterly"
	PlanYearly    = "yearly"
)

// Subscription statuses
const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
	SubscriptionPending   = "pending"
)

// Subscription user types. UserTypeAll only applies to plan visibility rows.
const (
	UserTypeDoctor = "doctor"
	UserTypeParent = "parent"
	UserTypeAll    = "all"
)

// Subscription is a paid plan held by a user.
type Subscription struct {
	ID          string     `json:"_id"`
	User        Ref        `json:"user"`
	Plan        string     `json:"plan"`
	UserType    string     `json:"userType"`
	Amount      float64    `json:"amount"`
	Discount    float64    `json:"discount"`
	FinalAmount float64    `json:"finalAmount"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	AutoRenew   bool       `json:"autoRenew"`
	PaymentID   string     `json:"paymentId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (s Subscription) GetID() string { return s.ID }

// SubscriptionFilter holds the subscriptions page filters. The page shows
// "all" for an unset filter.
type SubscriptionFilter struct {
	Status   string `json:"status" form:"status" binding:"omitempty,oneof=all active expired cancelled pending"`
	UserType string `json:"userType" form:"userType" binding:"omitempty,oneof=all doctor parent"`
	Plan     string `json:"plan" form:"plan" binding:"omitempty,oneof=all monthly quarterly yearly"`
}

// OffsetPagination is the page block of the subscriptions listing.
type OffsetPagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Skip    int  `json:"skip"`
	HasMore bool `json:"hasMore"`
}

// Pagination converts the offset block into page numbers.
func (o OffsetPagination) Pagination() Pagination {
	limit := o.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return Pagination{
		Page:  o.Skip/limit + 1,
		Limit: limit,
		Total: o.Total,
		Pages: (o.Total + limit - 1) / limit,
	}
}

// SubscriptionListResponse is the answer of GET /admin/subscriptions.
type SubscriptionListResponse struct {
	Success    bool              `json:"success"`
	Data       []Subscription    `json:"data"`
	Pagination *OffsetPagination `json:"pagination"`
}

func (r SubscriptionListResponse) Page() Page[Subscription] {
	p := Page[Subscription]{Items: r.Data}
	if p.Items == nil {
		p.Items = []Subscription{}
	}
	off := OffsetPagination{Limit: DefaultPageSize}
	if r.Pagination != nil {
		off = *r.Pagination
	}
	p.Pagination = off.Pagination()
	return p
}

// Bucket is one row of a distribution aggregate.
type Bucket struct {
	ID    string `json:"_id"`
	Count int    `json:"count"`
}

type Revenue struct {
	Total    float64 `json:"total"`
	Payments int     `json:"payments"`
}

// SubscriptionStats is the aggregate shown above the subscriptions table.
type SubscriptionStats struct {
	Total                int      `json:"total"`
	Active               int      `json:"active"`
	Expired              int      `json:"expired"`
	Cancelled            int      `json:"cancelled"`
	Revenue              Revenue  `json:"revenue"`
	PlanDistribution     []Bucket `json:"planDistribution"`
	UserTypeDistribution []Bucket `json:"userTypeDistribution"`
}

// UserSubscriptions is the answer of GET /admin/subscriptions/user/:id.
type UserSubscriptions struct {
	User          Ref            `json:"user"`
	Subscriptions []Subscription `json:"subscriptions"`
}

// AssignSubscriptionRequest creates a subscription for a user.
type AssignSubscriptionRequest struct {
	UserID    string   `json:"userId" binding:"required"`
	Plan      string   `json:"plan" binding:"required,oneof=monthly quarterly yearly"`
	UserType  string   `json:"userType" binding:"required,oneof=doctor parent"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	Amount    *float64 `json:"amount,omitempty"`
}

// UpdateSubscriptionRequest edits one subscription. Nil fields are left unchanged.
type UpdateSubscriptionRequest struct {
	Plan      *string  `json:"plan,omitempty" binding:"omitempty,oneof=monthly quarterly yearly"`
	Status    *string  `json:"status,omitempty" binding:"omitempty,oneof=active expired cancelled pending"`
	StartDate *string  `json:"startDate,omitempty"`
	EndDate   *string  `json:"endDate,omitempty"`
	Amount    *float64 `json:"amount,omitempty"`
	AutoRenew *bool    `json:"autoRenew,omitempty"`
}

type CancelSubscriptionRequest struct {
	Reason string `json:"reason,omitempty"`
}

// PlanVisibility controls whether and how a plan is offered to a user type.
type PlanVisibility struct {
	ID             string   `json:"_id"`
	UserType       string   `json:"userType"`
	Plan           string   `json:"plan"`
	IsVisible      bool     `json:"isVisible"`
	IsDefault      bool     `json:"isDefault"`
	CustomPrice    *float64 `json:"customPrice"`
	CustomDiscount *float64 `json:"customDiscount"`
	Description    string   `json:"description"`
	Order          int      `json:"order"`
}

func (p PlanVisibility) GetID() string { return p.ID }

// CreatePlanVisibilityRequest omits unset prices so the server stores null.
type CreatePlanVisibilityRequest struct {
	UserType       string   `json:"userType" binding:"required,oneof=doctor parent all"`
	Plan           string   `json:"plan" binding:"required,oneof=monthly quarterly yearly"`
	IsVisible      bool     `json:"isVisible"`
	IsDefault      bool     `json:"isDefault"`
	CustomPrice    *float64 `json:"customPrice,omitempty"`
	CustomDiscount *float64 `json:"customDiscount,omitempty"`
	Description    string   `json:"description,omitempty"`
	Order          int      `json:"order"`
}

// UpdatePlanVisibilityRequest always sends both prices; null means platform default.
type UpdatePlanVisibilityRequest struct {
	IsVisible      bool     `json:"isVisible"`
	IsDefault      bool     `json:"isDefault"`
	CustomPrice    *float64 `json:"customPrice"`
	CustomDiscount *float64 `json:"customDiscount"`
	Description    string   `json:"description"`
	Order          int      `json:"order"`
}
