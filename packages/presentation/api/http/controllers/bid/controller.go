package bidcontroller

import (
	"context"
	"errors"
	Error "flashauction/packages/common/errors"
	"flashauction/packages/common/logger"
	"flashauction/packages/core/bid"
	controller "flashauction/packages/presentation/api/http/controllers"
	"flashauction/packages/presentation/api/http/middleware"
	"flashauction/packages/presentation/api/http/request"
	"flashauction/packages/presentation/api/http/response"
	RequestBody "flashauction/packages/presentation/data/request"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	workflow *bid.Workflow
}

func New(workflow *bid.Workflow) *Controller {
	return &Controller{workflow}
}

type placement struct {
	Bid     *bid.Bid `json:"bid"`
	Credits float64  `json:"credits"`
}

const insufficientCreditsMessage = "User does not have enough credits to bid."

// Converts failure of the bid workflow into *echo.HTTPError.
func convertStepError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, bid.ErrValidation):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, bid.ErrInsufficientCredits):
		return echo.NewHTTPError(http.StatusBadRequest, insufficientCreditsMessage)
	case errors.Is(err, context.Canceled):
		return echo.NewHTTPError(Error.StatusTimeout.Status(), "Request was cancelled")
	}

	if ok, status := Error.IsStatusError(err); ok {
		return echo.NewHTTPError(status.Status(), status.Error())
	}

	if storeErr, ok := Error.AsStore(err); ok {
		return echo.NewHTTPError(http.StatusBadRequest, controller.StoreFaultMessage(storeErr))
	}

	return controller.ConvertError(err)
}

// POST /bids
//
// Places bid of the requester, amount is added to their current bid on the auction.
func (c *Controller) Place(ctx echo.Context) error {
	body := new(RequestBody.PlaceBid)
	if err := controller.BindAndValidate(ctx, body, http.StatusUnprocessableEntity); err != nil {
		return err
	}

	principal := middleware.GetPrincipal(ctx)
	reqMeta := request.GetMetadata(ctx)

	result, err := c.workflow.PlaceBid(ctx.Request().Context(), bid.PlaceParams{
		AuctionID: body.AuctionID,
		UserID:    principal.UserID,
		Amount:    body.BidAmount,
		AuthToken: principal.Token,
	})
	if err != nil {
		meta := logger.Meta{"auction_id": body.AuctionID}
		for k, v := range reqMeta {
			meta[k] = v
		}
		if stepErr, ok := bid.AsStepError(err); ok {
			meta["step"] = stepErr.Step.String()
		}

		controller.Logger.Debug("Bid rejected: "+err.Error(), meta)

		return convertStepError(err)
	}

	return response.Success(ctx, http.StatusOK, "Bid placed successfully.", placement{
		Bid:     result.Bid,
		Credits: result.Balance,
	})
}
