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

	"github.com/tandempay/hubgov/api/middleware"
	model2 "github.com/tandempay/hubgov/api/model"
)

func (a Api) CreateAccountChangeRequest(c *gin.Context) {
	id, _ := c.Params.Get("id")

	var req model2.AccountChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateAccountChangeRequest(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	requestID, err := a.gov.CreateParticipantAccountChangeRequest(c.Request.Context(), middleware.SecurityContext(c), id, req.ToChangeRequest())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request_id": requestID})
}

func (a Api) ApproveAccountChangeRequest(c *gin.Context) {
	id, _ := c.Params.Get("id")
	requestID, _ := c.Params.Get("requestId")

	accountID, err := a.gov.ApproveParticipantAccountChangeRequest(c.Request.Context(), middleware.SecurityContext(c), id, requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request_id": requestID, "account_id": accountID})
}

func (a Api) CreateSourceIPChangeRequest(c *gin.Context) {
	id, _ := c.Params.Get("id")

	var req model2.SourceIPChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateSourceIPChangeRequest(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	requestID, err := a.gov.CreateParticipantSourceIPChangeRequest(c.Request.Context(), middleware.SecurityContext(c), id, req.ToChangeRequest())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request_id": requestID})
}

func (a Api) ApproveSourceIPChangeRequest(c *gin.Context) {
	id, _ := c.Params.Get("id")
	requestID, _ := c.Params.Get("requestId")

	sourceIPID, err := a.gov.ApproveParticipantSourceIPChangeRequest(c.Request.Context(), middleware.SecurityContext(c), id, requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request_id": requestID, "source_ip_id": sourceIPID})
}

func (a Api) CreateContactInfoChangeRequest(c *gin.Context) {
	id, _ := c.Params.Get("id")

	var req model2.ContactInfoChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateContactInfoChangeRequest(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	requestID, err := a.gov.CreateParticipantContactInfoChangeRequest(c.Request.Context(), middleware.SecurityContext(c), id, req.ToChangeRequest())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request_id": requestID})
}

func (a Api) ApproveContactInfoChangeRequest(c *gin.Context) {
	id, _ := c.Params.Get("id")
	requestID, _ := c.Params.Get("requestId")

	contactID, err := a.gov.ApproveParticipantContactInfoChangeRequest(c.Request.Context(), middleware.SecurityContext(c), id, requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request_id": requestID, "contact_id": contactID})
}

func (a Api) CreateNdcChangeRequest(c *gin.Context) {
	id, _ := c.Params.Get("id")

	var req model2.NdcChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateNdcChangeRequest(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	requestID, err := a.gov.CreateParticipantNetDebitCap(c.Request.Context(), middleware.SecurityContext(c), id, req.ToChangeRequest())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request_id": requestID})
}

func (a Api) ApproveNdcChangeRequest(c *gin.Context) {
	id, _ := c.Params.Get("id")
	requestID, _ := c.Params.Get("requestId")

	currency, err := a.gov.ApproveParticipantNetDebitCap(c.Request.Context(), middleware.SecurityContext(c), id, requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request_id": requestID, "currency_code": currency})
}

func (a Api) CreateFundsMovement(c *gin.Context) {
	id, _ := c.Params.Get("id")

	var req model2.CreateFundsMovement
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateCreateFundsMovement(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	movementID, err := a.gov.CreateFundsMovement(c.Request.Context(), middleware.SecurityContext(c), id, req.ToFundsMovement())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"movement_id": movementID})
}

func (a Api) ApproveFundsMovement(c *gin.Context) {
	id, _ := c.Params.Get("id")
	movementID, _ := c.Params.Get("movementId")

	if err := a.gov.ApproveFundsMovement(c.Request.Context(), middleware.SecurityContext(c), id, movementID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movement_id": movementID, "approved": true})
}
