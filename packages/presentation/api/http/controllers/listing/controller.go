package listingcontroller

import (
	"flashauction/packages/common/validation"
	"flashauction/packages/core/listing"
	controller "flashauction/packages/presentation/api/http/controllers"
	"flashauction/packages/presentation/api/http/middleware"
	"flashauction/packages/presentation/api/http/request"
	"flashauction/packages/presentation/api/http/response"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	repo listing.Repository
}

func New(repo listing.Repository) *Controller {
	return &Controller{repo}
}

func listingID(ctx echo.Context) (string, error) {
	id := ctx.Param("id")
	if validation.UUID(id) != nil {
		return "", controller.ConvertError(listing.InvalidListingID)
	}
	return id, nil
}

// GET /listings
func (c *Controller) Find(ctx echo.Context) error {
	params := request.QueryParams(ctx)

	if err := listing.ValidateQueryParams(params); err != nil {
		return controller.ConvertError(err)
	}

	l := listing.New()
	l.PrepareQueryData(params)

	listings, err := c.repo.Find(ctx.Request().Context(), l)
	if err != nil {
		return controller.HandleError(ctx, "Failed to get listings", err)
	}

	return response.Success(ctx, http.StatusOK, "Listings fetched successfully.", listings)
}

// GET /listings/:id
func (c *Controller) FindByID(ctx echo.Context) error {
	id, err := listingID(ctx)
	if err != nil {
		return err
	}

	l, err := c.repo.FindByID(ctx.Request().Context(), id)
	if err != nil {
		return controller.HandleError(ctx, "Failed to get listing", err)
	}

	return response.Success(ctx, http.StatusOK, "Listing fetched successfully.", l)
}

// POST /listings
//
// Listing is always created on behalf of the requester.
func (c *Controller) Create(ctx echo.Context) error {
	l := listing.New()
	if err := ctx.Bind(l); err != nil {
		return err
	}

	userID := middleware.GetPrincipal(ctx).UserID

	l.UserID = &userID
	l.PrepareData()
	l.ApplyDefaults()

	if err := l.ValidateCreate(); err != nil {
		return controller.ConvertError(err)
	}

	created, err := c.repo.Create(ctx.Request().Context(), l)
	if err != nil {
		return controller.HandleError(ctx, "Failed to create listing", err)
	}

	controller.Logger.Info("Listing created", request.GetMetadata(ctx))

	return response.Success(ctx, http.StatusCreated, "Listing created successfully.", created)
}

func (c *Controller) checkOwnership(ctx echo.Context, id string) error {
	existing, err := c.repo.FindByID(ctx.Request().Context(), id)
	if err != nil {
		return controller.HandleError(ctx, "Failed to get listing", err)
	}

	if existing.UserID == nil || *existing.UserID != middleware.GetPrincipal(ctx).UserID {
		return controller.ConvertError(listing.NotListingOwner)
	}

	return nil
}

// PATCH /listings/:id
func (c *Controller) Update(ctx echo.Context) error {
	id, err := listingID(ctx)
	if err != nil {
		return err
	}

	if err := c.checkOwnership(ctx, id); err != nil {
		return err
	}

	l := listing.New()
	if err := ctx.Bind(l); err != nil {
		return err
	}

	l.PrepareData()
	l.Identify(id)

	updated, err := c.repo.Update(ctx.Request().Context(), l)
	if err != nil {
		return controller.HandleError(ctx, "Failed to update listing", err)
	}

	return response.Success(ctx, http.StatusOK, "Listing updated successfully.", updated)
}

// DELETE /listings/:id
func (c *Controller) Delete(ctx echo.Context) error {
	id, err := listingID(ctx)
	if err != nil {
		return err
	}

	if err := c.checkOwnership(ctx, id); err != nil {
		return err
	}

	l := listing.New()
	l.Identify(id)

	deleted, err := c.repo.Delete(ctx.Request().Context(), l)
	if err != nil {
		return controller.HandleError(ctx, "Failed to delete listing", err)
	}

	return response.Success(ctx, http.StatusOK, "Listing deleted successfully.", deleted)
}
