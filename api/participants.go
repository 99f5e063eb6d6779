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

func (a Api) CreateParticipant(c *gin.Context) {
	var newParticipant model2.CreateParticipant
	if err := c.ShouldBindJSON(&newParticipant); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := newParticipant.ValidateCreateParticipant(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	id, err := a.gov.CreateParticipant(c.Request.Context(), middleware.SecurityContext(c), newParticipant.ToParticipant())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (a Api) GetParticipant(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.gov.GetParticipant(c.Request.Context(), middleware.SecurityContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) GetAllParticipants(c *gin.Context) {
	resp, err := a.gov.GetAllParticipants(c.Request.Context(), middleware.SecurityContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) SearchParticipants(c *gin.Context) {
	resp, err := a.gov.SearchParticipants(c.Request.Context(), middleware.SecurityContext(c),
		c.Query("id"), c.Query("name"), c.Query("state"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) GetParticipantLiquidity(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.gov.GetParticipantLiquidity(c.Request.Context(), middleware.SecurityContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) ApproveParticipant(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	if err := a.gov.ApproveParticipant(c.Request.Context(), middleware.SecurityContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "approved": true})
}

func (a Api) ActivateParticipant(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	if err := a.gov.ActivateParticipant(c.Request.Context(), middleware.SecurityContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_active": true})
}

func (a Api) DeactivateParticipant(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	if err := a.gov.DeactivateParticipant(c.Request.Context(), middleware.SecurityContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_active": false})
}

func (a Api) AddEndpoint(c *gin.Context) {
	id, _ := c.Params.Get("id")

	var endpoint model2.UpsertEndpoint
	if err := c.ShouldBindJSON(&endpoint); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := endpoint.ValidateUpsertEndpoint(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	endpointID, err := a.gov.AddParticipantEndpoint(c.Request.Context(), middleware.SecurityContext(c), id, endpoint.ToEndpoint())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": endpointID})
}

func (a Api) ChangeEndpoint(c *gin.Context) {
	id, _ := c.Params.Get("id")
	endpointID, _ := c.Params.Get("endpointId")

	var endpoint model2.UpsertEndpoint
	if err := c.ShouldBindJSON(&endpoint); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	endpoint.ID = endpointID
	if err := endpoint.ValidateUpsertEndpoint(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := a.gov.ChangeParticipantEndpoint(c.Request.Context(), middleware.SecurityContext(c), id, endpoint.ToEndpoint()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": endpointID})
}

func (a Api) RemoveEndpoint(c *gin.Context) {
	id, _ := c.Params.Get("id")
	endpointID, _ := c.Params.Get("endpointId")

	if err := a.gov.RemoveParticipantEndpoint(c.Request.Context(), middleware.SecurityContext(c), id, endpointID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": endpointID, "removed": true})
}
