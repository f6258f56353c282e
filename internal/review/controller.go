package review

import (
	"context"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/sportshop/frontend/pkg/errors"
	"github.com/sportshop/frontend/pkg/logger"
)

const opSubmit = "review_submit"

const (
	msgValidation    = "Пожалуйста, заполните все поля"
	msgSubmitted     = "Спасибо за ваш отзыв!"
	msgSubmitFailed  = "Ошибка при отправке отзыва"
	selfAuthor       = "Вы"
	justNowTimestamp = "Только что"
)

// Review is a rendered review list item. For an optimistic append the client
// synthesizes one from the draft; when the server returns its stored review,
// that one is used instead.
type Review struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Author  string `json:"author"`
	Created string `json:"created"`
}

type submitResponse struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	Error         string   `json:"error"`
	AverageRating *float64 `json:"average_rating"`
	ReviewsCount  *int     `json:"reviews_count"`
	Review        *Review  `json:"review"`
}

// View is implemented by the binding layer that owns the review form and list.
type View interface {
	ResetForm()
	SetAverageRating(value float64)
	SetReviewsCount(count int)
	PrependReview(review Review)
}

type apiClient interface {
	PostJSON(ctx context.Context, operation, path string, body any, dest any) error
}

type notifier interface {
	Success(message string) uuid.UUID
	Error(message string) uuid.UUID
}

// Params groups dependencies for the review controller.
type Params struct {
	Client   apiClient
	Notifier notifier
	View     View
	Logger   *logger.Logger
}

// Controller owns review submission for product pages.
type Controller struct {
	client apiClient
	notif  notifier
	view   View
	logg   *logger.Logger
}

// NewController builds a review controller with the required dependencies.
func NewController(params Params) (*Controller, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "api client is required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notifier is required")
	}
	if params.View == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "view is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &Controller{
		client: params.Client,
		notif:  params.Notifier,
		view:   params.View,
		logg:   params.Logger,
	}, nil
}

// Submit validates the draft locally, posts it, and on success resets the form,
// refreshes the aggregate displays, and prepends the review to the visible list
// without waiting for a page reload.
func (c *Controller) Submit(ctx context.Context, productID string, draft Draft) {
	ctx = c.logg.WithProductID(ctx, productID)

	if err := draft.Validate(); err != nil {
		c.notif.Error(pkgerrors.UserMessage(err, msgValidation))
		return
	}

	var resp submitResponse
	err := c.client.PostJSON(ctx, opSubmit, "/api/review/"+productID+"/", draft, &resp)
	if err == nil && !resp.Success {
		err = pkgerrors.New(pkgerrors.CodeServerRejected, resp.Error)
	}
	if err != nil {
		c.notif.Error(pkgerrors.UserMessage(err, msgSubmitFailed))
		return
	}

	message := resp.Message
	if message == "" {
		message = msgSubmitted
	}
	c.notif.Success(message)
	c.view.ResetForm()

	if resp.AverageRating != nil {
		c.view.SetAverageRating(*resp.AverageRating)
	}
	if resp.ReviewsCount != nil {
		c.view.SetReviewsCount(*resp.ReviewsCount)
	}

	review := synthesize(draft)
	if resp.Review != nil {
		review = *resp.Review
	}
	c.view.PrependReview(review)
}

// synthesize builds the optimistic list entry from the submitted draft.
func synthesize(draft Draft) Review {
	return Review{
		Rating:  draft.Rating,
		Comment: strings.TrimSpace(draft.Comment),
		Author:  selfAuthor,
		Created: justNowTimestamp,
	}
}
