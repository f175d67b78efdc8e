package auctioncontroller

import (
	"flashauction/packages/core/auction"
	controller "flashauction/packages/presentation/api/http/controllers"
	"flashauction/packages/presentation/api/http/middleware"
	"flashauction/packages/presentation/api/http/request"
	"flashauction/packages/presentation/api/http/response"
	RequestBody "flashauction/packages/presentation/data/request"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	repo auction.Repository
	now  func() time.Time
}

func New(repo auction.Repository) *Controller {
	return &Controller{repo: repo, now: time.Now}
}

// GET /auctions
//
// Query params: auction_id, is_flash, has_ended. Without params all auctions are returned.
func (c *Controller) Find(ctx echo.Context) error {
	a := auction.New()
	a.PrepareQueryData(request.QueryParams(ctx))

	if err := a.ValidateQuery(); err != nil {
		return controller.ConvertError(err)
	}

	auctions, err := c.repo.Find(ctx.Request().Context(), a)
	if err != nil {
		return controller.HandleError(ctx, "Failed to get auctions", err)
	}

	return response.Success(ctx, http.StatusOK, "Auctions fetched successfully.", auctions)
}

// POST /auctions
//
// Creates flash auction for the requester's listing.
func (c *Controller) Create(ctx echo.Context) error {
	body := new(RequestBody.CreateAuction)
	if err := controller.BindAndValidate(ctx, body, http.StatusBadRequest); err != nil {
		return err
	}

	a := &auction.Auction{
		ListingID: &body.ListingID,
		StartTime: &body.StartTime,
		EndTime:   &body.EndTime,
	}
	a.PrepareData()

	if err := a.ValidateSchedule(c.now()); err != nil {
		return controller.ConvertError(err)
	}

	principal := middleware.GetPrincipal(ctx)

	created, err := c.repo.Create(ctx.Request().Context(), a, auction.Requester{
		UserID:    principal.UserID,
		AuthToken: principal.Token,
	})
	if err != nil {
		return controller.HandleError(ctx, "Failed to create flash auction", err)
	}

	return response.Success(ctx, http.StatusCreated, "Flash auction created successfully.", created)
}
