package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/field-attendance-api/internal/dto"
	apierrors "github.com/yukikurage/field-attendance-api/internal/errors"
	"github.com/yukikurage/field-attendance-api/internal/models"
	"github.com/yukikurage/field-attendance-api/internal/services"
)

// AssignmentHandlerTestSuite defines the test suite for AssignmentHandler
type AssignmentHandlerTestSuite struct {
	suite.Suite
	env    handlerTestEnv
	admin  services.AdminPrincipal
	worker services.WorkerPrincipal
}

// SetupTest runs before each test
func (suite *AssignmentHandlerTestSuite) SetupTest() {
	suite.env = setupHandlerTestEnv(suite.T())
	_, admin := suite.env.signup(suite.T(), "admin", models.RoleAdmin)
	_, worker := suite.env.signup(suite.T(), "worker", models.RoleWorker)
	suite.admin = admin.(services.AdminPrincipal)
	suite.worker = worker.(services.WorkerPrincipal)
}

func (suite *AssignmentHandlerTestSuite) createBody(start, end string) gin.H {
	return gin.H{
		"worker_id": suite.worker.WorkerID(),
		"date":      "2024-06-01",
		"location": gin.H{
			"latitude":  40.0,
			"longitude": -74.0,
		},
		"time_slot": gin.H{
			"start": start,
			"end":   end,
		},
		"required_duration_minutes": 60,
		"description":               "Inspect the site",
	}
}

func (suite *AssignmentHandlerTestSuite) createAssignment(start, end string) dto.AssignmentDTO {
	c, w := principalContext(http.MethodPost, "/api/admin/assignments", suite.createBody(start, end), suite.admin)
	suite.env.assignmentHandler.CreateAssignment(c)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var response dto.AssignmentDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (suite *AssignmentHandlerTestSuite) TestCreateAssignment() {
	response := suite.createAssignment("09:00", "12:00")

	suite.NotEqual(uuid.Nil, response.ID)
	suite.Equal(suite.admin.AdminID(), response.AssignedByID)
	suite.Equal("09:00", response.TimeSlot.Start)
	suite.Require().NotNil(response.Worker)
	suite.Equal("worker", response.Worker.Name)
}

func (suite *AssignmentHandlerTestSuite) TestCreateAssignment_Conflict() {
	existing := suite.createAssignment("09:00", "12:00")

	c, w := principalContext(http.MethodPost, "/api/admin/assignments", suite.createBody("11:00", "13:00"), suite.admin)
	suite.env.assignmentHandler.CreateAssignment(c)
	suite.Equal(http.StatusConflict, w.Code)

	var response struct {
		Code    string              `json:"code"`
		Details dto.ConflictDetails `json:"details"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(apierrors.ErrCodeConflict, response.Code)
	suite.Equal(existing.ID, response.Details.AssignmentID)
	suite.Equal("12:00", response.Details.TimeSlot.End)

	suite.createAssignment("12:00", "15:00")
}

func (suite *AssignmentHandlerTestSuite) TestCreateAssignment_Validation() {
	c, w := principalContext(http.MethodPost, "/api/admin/assignments", suite.createBody("10:00", "10:00"), suite.admin)
	suite.env.assignmentHandler.CreateAssignment(c)
	suite.Equal(http.StatusBadRequest, w.Code)

	body := suite.createBody("09:00", "10:00")
	delete(body, "location")
	c, w = principalContext(http.MethodPost, "/api/admin/assignments", body, suite.admin)
	suite.env.assignmentHandler.CreateAssignment(c)
	suite.Equal(http.StatusBadRequest, w.Code)

	body = suite.createBody("09:00", "10:00")
	body["worker_id"] = 9999
	c, w = principalContext(http.MethodPost, "/api/admin/assignments", body, suite.admin)
	suite.env.assignmentHandler.CreateAssignment(c)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AssignmentHandlerTestSuite) TestUpdateAndDelete() {
	created := suite.createAssignment("09:00", "12:00")
	path := "/api/admin/assignments/" + created.ID.String()

	c, w := principalContext(http.MethodPut, path, gin.H{"time_slot": gin.H{"end": "13:00"}, "description": ""}, suite.admin)
	c.Params = gin.Params{{Key: "id", Value: created.ID.String()}}
	suite.env.assignmentHandler.UpdateAssignment(c)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var updated dto.AssignmentDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	suite.Equal("09:00", updated.TimeSlot.Start)
	suite.Equal("13:00", updated.TimeSlot.End)
	suite.Equal("", updated.Description)
	suite.Equal(60, updated.RequiredDurationMinutes)

	_, other := suite.env.signup(suite.T(), "other", models.RoleAdmin)
	c, w = principalContext(http.MethodDelete, path, nil, other)
	c.Params = gin.Params{{Key: "id", Value: created.ID.String()}}
	suite.env.assignmentHandler.DeleteAssignment(c)
	suite.Equal(http.StatusForbidden, w.Code)

	c, w = principalContext(http.MethodDelete, path, nil, suite.admin)
	c.Params = gin.Params{{Key: "id", Value: created.ID.String()}}
	suite.env.assignmentHandler.DeleteAssignment(c)
	suite.Equal(http.StatusOK, w.Code)

	c, w = principalContext(http.MethodDelete, path, nil, suite.admin)
	c.Params = gin.Params{{Key: "id", Value: created.ID.String()}}
	suite.env.assignmentHandler.DeleteAssignment(c)
	suite.Equal(http.StatusNotFound, w.Code)

	c, w = principalContext(http.MethodDelete, "/api/admin/assignments/nope", nil, suite.admin)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	suite.env.assignmentHandler.DeleteAssignment(c)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AssignmentHandlerTestSuite) TestListAssignments() {
	suite.createAssignment("09:00", "10:00")
	suite.createAssignment("10:00", "11:00")
	suite.createAssignment("11:00", "12:00")

	c, w := principalContext(http.MethodGet, "/api/admin/assignments?page=1&limit=2", nil, suite.admin)
	suite.env.assignmentHandler.ListAssignments(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.AssignmentListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Len(response.Assignments, 2)
	suite.Equal(int64(3), response.TotalCount)
	suite.Equal(2, response.TotalPages)
	suite.Equal(2, response.PageSize)
}

func (suite *AssignmentHandlerTestSuite) TestListWorkers() {
	c, w := principalContext(http.MethodGet, "/api/admin/workers", nil, suite.admin)
	suite.env.assignmentHandler.ListWorkers(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Workers []dto.WorkerDTO `json:"workers"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Workers, 1)
	suite.Equal(suite.worker.WorkerID(), response.Workers[0].ID)
}

func (suite *AssignmentHandlerTestSuite) TestRequiresAdminPrincipal() {
	c, w := principalContext(http.MethodPost, "/api/admin/assignments", suite.createBody("09:00", "10:00"), suite.worker)
	suite.env.assignmentHandler.CreateAssignment(c)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

// TestAssignmentHandlerTestSuite runs the test suite
func TestAssignmentHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AssignmentHandlerTestSuite))
}
