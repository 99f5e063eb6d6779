/*
Copyright 2025 Tandem Payments Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/tandempay/hubgov"
	"github.com/tandempay/hubgov/api/middleware"
	"github.com/tandempay/hubgov/auth"
)

type Api struct {
	gov    *hubgov.Hubgov
	router *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	secured := router.Group("/", middleware.TokenAuthMiddleware())

	secured.POST("/participants", a.CreateParticipant)
	secured.GET("/participants", a.GetAllParticipants)
	secured.GET("/participants/search", a.SearchParticipants)
	secured.GET("/participants/:id", a.GetParticipant)
	secured.GET("/participants/:id/liquidity", a.GetParticipantLiquidity)
	secured.POST("/participants/:id/approve", a.ApproveParticipant)
	secured.POST("/participants/:id/activate", a.ActivateParticipant)
	secured.POST("/participants/:id/deactivate", a.DeactivateParticipant)

	secured.POST("/participants/:id/endpoints", a.AddEndpoint)
	secured.PUT("/participants/:id/endpoints/:endpointId", a.ChangeEndpoint)
	secured.DELETE("/participants/:id/endpoints/:endpointId", a.RemoveEndpoint)

	secured.POST("/participants/:id/account-change-requests", a.CreateAccountChangeRequest)
	secured.POST("/participants/:id/account-change-requests/:requestId/approve", a.ApproveAccountChangeRequest)

	secured.POST("/participants/:id/source-ip-change-requests", a.CreateSourceIPChangeRequest)
	secured.POST("/participants/:id/source-ip-change-requests/:requestId/approve", a.ApproveSourceIPChangeRequest)

	secured.POST("/participants/:id/contact-info-change-requests", a.CreateContactInfoChangeRequest)
	secured.POST("/participants/:id/contact-info-change-requests/:requestId/approve", a.ApproveContactInfoChangeRequest)

	secured.POST("/participants/:id/ndc-change-requests", a.CreateNdcChangeRequest)
	secured.POST("/participants/:id/ndc-change-requests/:requestId/approve", a.ApproveNdcChangeRequest)

	secured.POST("/participants/:id/funds-movements", a.CreateFundsMovement)
	secured.POST("/participants/:id/funds-movements/:movementId/approve", a.ApproveFundsMovement)

	return a.router
}

func NewAPI(gov *hubgov.Hubgov) *Api {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return &Api{gov: gov, router: r}
}

// statusFor maps a domain error to the HTTP status the caller should see.
// Unknown errors are internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, hubgov.ErrParticipantNotFound),
		errors.Is(err, hubgov.ErrAccountNotFound),
		errors.Is(err, hubgov.ErrEndpointNotFound),
		errors.Is(err, hubgov.ErrAccountChangeRequestNotFound),
		errors.Is(err, hubgov.ErrSourceIPChangeRequestNotFound),
		errors.Is(err, hubgov.ErrContactInfoChangeRequestNotFound),
		errors.Is(err, hubgov.ErrNdcChangeRequestNotFound),
		errors.Is(err, hubgov.ErrFundsMovementNotFound):
		return http.StatusNotFound

	case errors.Is(err, auth.ErrForbidden),
		errors.Is(err, hubgov.ErrMakerCheckerViolation):
		return http.StatusForbidden

	case errors.Is(err, hubgov.ErrParticipantAlreadyExists),
		errors.Is(err, hubgov.ErrEndpointAlreadyExists),
		errors.Is(err, hubgov.ErrDuplicateAccount),
		errors.Is(err, hubgov.ErrDuplicateSourceIP),
		errors.Is(err, hubgov.ErrDuplicateContact),
		errors.Is(err, hubgov.ErrParticipantAlreadyApproved),
		errors.Is(err, hubgov.ErrAccountChangeRequestAlreadyApproved),
		errors.Is(err, hubgov.ErrSourceIPChangeRequestAlreadyApproved),
		errors.Is(err, hubgov.ErrContactChangeRequestAlreadyApproved),
		errors.Is(err, hubgov.ErrNdcChangeRequestAlreadyApproved),
		errors.Is(err, hubgov.ErrFundsMovementAlreadyApproved),
		errors.Is(err, hubgov.ErrStoreConflict):
		return http.StatusConflict

	case errors.Is(err, hubgov.ErrInvalidParticipant),
		errors.Is(err, hubgov.ErrInvalidAccountChange),
		errors.Is(err, hubgov.ErrInvalidSourceIPChange),
		errors.Is(err, hubgov.ErrInvalidContactInfoChange),
		errors.Is(err, hubgov.ErrInvalidNdcChangeRequest),
		errors.Is(err, hubgov.ErrInvalidFundsMovement),
		errors.Is(err, hubgov.ErrInvalidEndpoint),
		errors.Is(err, hubgov.ErrParticipantNotApproved),
		errors.Is(err, hubgov.ErrWithdrawalExceedsBalance):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
