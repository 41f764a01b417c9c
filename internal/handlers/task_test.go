package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fuelbuddy/fuelbuddy-api/internal/constants"
	"github.com/fuelbuddy/fuelbuddy-api/internal/models"
	"github.com/fuelbuddy/fuelbuddy-api/internal/repository"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskAssignee{},
	)
	suite.Require().NoError(err)

	suite.handler = NewTaskHandler(repository.NewTaskRepository(suite.db))

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data

func (suite *TaskHandlerTestSuite) createTestUser(id, email string) *models.User {
	user := &models.User{
		ID:    id,
		Name:  "Test User " + id,
		Email: email,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTask(title, creatorID string) *models.Task {
	task := &models.Task{
		Title:       title,
		Description: "Test Description",
		Status:      models.TaskStatusPending,
		CreatorID:   &creatorID,
	}
	suite.db.Create(task)
	return task
}

func (suite *TaskHandlerTestSuite) assignUser(taskID uint64, userID string) {
	suite.db.Create(&models.TaskAssignee{TaskID: taskID, UserID: userID})
}

// createAuthContext builds a gin context with an authenticated principal
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, userID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func (suite *TaskHandlerTestSuite) setIDParam(c *gin.Context, id string) {
	c.Params = gin.Params{{Key: "id", Value: id}}
}

func (suite *TaskHandlerTestSuite) decodeTask(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	suite.Require().NoError(err)
	return response
}

// TestCreateTask_SetsCreator verifies the creator is always the caller
func (suite *TaskHandlerTestSuite) TestCreateTask_SetsCreator() {
	user := suite.createTestUser("user-1", "one@example.com")

	body, _ := json.Marshal(map[string]interface{}{"title": "Check tyre pressure"})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
	response := suite.decodeTask(w)
	assert.Equal(suite.T(), user.ID, response["creatorId"])
	assert.Equal(suite.T(), user.ID, response["creator"].(map[string]interface{})["id"])
}

// TestCreateTask_RoundTripDefaults verifies defaults on a minimal task
func (suite *TaskHandlerTestSuite) TestCreateTask_RoundTripDefaults() {
	user := suite.createTestUser("user-1", "one@example.com")

	body, _ := json.Marshal(map[string]interface{}{"title": "Buy fuel"})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)
	suite.handler.CreateTask(c)
	suite.Require().Equal(http.StatusCreated, w.Code)

	created := suite.decodeTask(w)
	taskID := uint64(created["id"].(float64))

	c, w = suite.createAuthContext("GET", "/api/tasks/1", nil, user.ID)
	suite.setIDParam(c, "1")
	suite.handler.GetTask(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	response := suite.decodeTask(w)
	assert.Equal(suite.T(), float64(taskID), response["id"])
	assert.Equal(suite.T(), "Buy fuel", response["title"])
	assert.Equal(suite.T(), "pending", response["status"])
	assert.Empty(suite.T(), response["description"])
	assert.Nil(suite.T(), response["dueDate"])
	assert.Empty(suite.T(), response["assignees"])
}

// TestCreateTask_WithAssignees verifies assignee rows and details
func (suite *TaskHandlerTestSuite) TestCreateTask_WithAssignees() {
	creator := suite.createTestUser("user-1", "one@example.com")
	assignee := suite.createTestUser("user-2", "two@example.com")

	body, _ := json.Marshal(map[string]interface{}{
		"title":       "Refill the jerrycan",
		"assigneeIds": []string{assignee.ID},
	})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, creator.ID)

	suite.handler.CreateTask(c)

	suite.Require().Equal(http.StatusCreated, w.Code)
	response := suite.decodeTask(w)
	assignees := response["assignees"].([]interface{})
	suite.Require().Len(assignees, 1)
	assert.Equal(suite.T(), assignee.ID, assignees[0].(map[string]interface{})["id"])

	var count int64
	suite.db.Model(&models.TaskAssignee{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestCreateTask_UnknownAssignee rejects unregistered assignee IDs
func (suite *TaskHandlerTestSuite) TestCreateTask_UnknownAssignee() {
	creator := suite.createTestUser("user-1", "one@example.com")

	body, _ := json.Marshal(map[string]interface{}{
		"title":       "Refill the jerrycan",
		"assigneeIds": []string{"ghost-user"},
	})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, creator.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestCreateTask_MissingTitle rejects an empty title
func (suite *TaskHandlerTestSuite) TestCreateTask_MissingTitle() {
	user := suite.createTestUser("user-1", "one@example.com")

	body, _ := json.Marshal(map[string]interface{}{"description": "no title"})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestListTasks_CreatorOrAssignee verifies the visibility rule
func (suite *TaskHandlerTestSuite) TestListTasks_CreatorOrAssignee() {
	creator := suite.createTestUser("user-1", "one@example.com")
	assignee := suite.createTestUser("user-2", "two@example.com")
	outsider := suite.createTestUser("user-3", "three@example.com")

	created := suite.createTestTask("Created by me", creator.ID)
	assigned := suite.createTestTask("Assigned to me", outsider.ID)
	suite.assignUser(assigned.ID, assignee.ID)
	suite.createTestTask("Unrelated", outsider.ID)

	// Creator sees their own task only
	c, w := suite.createAuthContext("GET", "/api/tasks", nil, creator.ID)
	suite.handler.ListTasks(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var tasks []map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tasks))
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), float64(created.ID), tasks[0]["id"])

	// Assignee sees the task they are assigned to
	c, w = suite.createAuthContext("GET", "/api/tasks", nil, assignee.ID)
	suite.handler.ListTasks(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tasks))
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), float64(assigned.ID), tasks[0]["id"])
}

// TestListTasks_ExcludesUnrelated: a principal who is neither creator
// nor assignee never receives the task
func (suite *TaskHandlerTestSuite) TestListTasks_ExcludesUnrelated() {
	creator := suite.createTestUser("user-1", "one@example.com")
	stranger := suite.createTestUser("user-2", "two@example.com")
	suite.createTestTask("Private task", creator.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, stranger.ID)
	suite.handler.ListTasks(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	var tasks []map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tasks))
	assert.Empty(suite.T(), tasks)
}

// TestListTasks_StatusFilter verifies the optional equality filter
func (suite *TaskHandlerTestSuite) TestListTasks_StatusFilter() {
	user := suite.createTestUser("user-1", "one@example.com")
	suite.createTestTask("Open", user.ID)
	done := suite.createTestTask("Done", user.ID)
	suite.db.Model(done).Update("status", models.TaskStatusCompleted)

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, user.ID)
	c.Request.URL.RawQuery = "status=completed"
	suite.handler.ListTasks(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	var tasks []map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tasks))
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), "Done", tasks[0]["title"])

	c, w = suite.createAuthContext("GET", "/api/tasks", nil, user.ID)
	c.Request.URL.RawQuery = "status=bogus"
	suite.handler.ListTasks(c)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestGetTask_NotFound returns 404 for unknown IDs
func (suite *TaskHandlerTestSuite) TestGetTask_NotFound() {
	user := suite.createTestUser("user-1", "one@example.com")

	c, w := suite.createAuthContext("GET", "/api/tasks/999", nil, user.ID)
	suite.setIDParam(c, "999")
	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestGetTask_NoOwnershipCheck: reads are not gated on ownership
func (suite *TaskHandlerTestSuite) TestGetTask_NoOwnershipCheck() {
	creator := suite.createTestUser("user-1", "one@example.com")
	stranger := suite.createTestUser("user-2", "two@example.com")
	task := suite.createTestTask("Readable", creator.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks/1", nil, stranger.ID)
	suite.setIDParam(c, "1")
	suite.handler.GetTask(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	response := suite.decodeTask(w)
	assert.Equal(suite.T(), float64(task.ID), response["id"])
}

// TestUpdateTask_ReplacesAssignees: [A] -> [B] leaves exactly {B}
func (suite *TaskHandlerTestSuite) TestUpdateTask_ReplacesAssignees() {
	creator := suite.createTestUser("user-1", "one@example.com")
	userA := suite.createTestUser("user-a", "a@example.com")
	userB := suite.createTestUser("user-b", "b@example.com")

	task := suite.createTestTask("Rotate tyres", creator.ID)
	suite.assignUser(task.ID, userA.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"assigneeIds": []string{userB.ID},
	})
	c, w := suite.createAuthContext("PATCH", "/api/tasks/1", body, creator.ID)
	suite.setIDParam(c, "1")
	suite.handler.UpdateTask(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	response := suite.decodeTask(w)
	assignees := response["assignees"].([]interface{})
	suite.Require().Len(assignees, 1)
	assert.Equal(suite.T(), userB.ID, assignees[0].(map[string]interface{})["id"])

	var remaining []models.TaskAssignee
	suite.db.Where("task_id = ?", task.ID).Find(&remaining)
	suite.Require().Len(remaining, 1)
	assert.Equal(suite.T(), userB.ID, remaining[0].UserID)
}

// TestUpdateTask_PartialFields updates only what was sent
func (suite *TaskHandlerTestSuite) TestUpdateTask_PartialFields() {
	creator := suite.createTestUser("user-1", "one@example.com")
	suite.createTestTask("Original title", creator.ID)

	body, _ := json.Marshal(map[string]interface{}{"status": "completed"})
	c, w := suite.createAuthContext("PATCH", "/api/tasks/1", body, creator.ID)
	suite.setIDParam(c, "1")
	suite.handler.UpdateTask(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	response := suite.decodeTask(w)
	assert.Equal(suite.T(), "completed", response["status"])
	assert.Equal(suite.T(), "Original title", response["title"])
}

// TestUpdateTask_InvalidStatus rejects unknown status values
func (suite *TaskHandlerTestSuite) TestUpdateTask_InvalidStatus() {
	creator := suite.createTestUser("user-1", "one@example.com")
	suite.createTestTask("Task", creator.ID)

	body, _ := json.Marshal(map[string]interface{}{"status": "archived"})
	c, w := suite.createAuthContext("PATCH", "/api/tasks/1", body, creator.ID)
	suite.setIDParam(c, "1")
	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUpdateTask_NonCreatorForbidden: only the creator may update
func (suite *TaskHandlerTestSuite) TestUpdateTask_NonCreatorForbidden() {
	creator := suite.createTestUser("user-1", "one@example.com")
	assignee := suite.createTestUser("user-2", "two@example.com")
	task := suite.createTestTask("Protected", creator.ID)
	suite.assignUser(task.ID, assignee.ID)

	body, _ := json.Marshal(map[string]interface{}{"title": "Hijacked"})
	c, w := suite.createAuthContext("PATCH", "/api/tasks/1", body, assignee.ID)
	suite.setIDParam(c, "1")
	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var unchanged models.Task
	suite.db.First(&unchanged, task.ID)
	assert.Equal(suite.T(), "Protected", unchanged.Title)
}

// TestUpdateTask_NotFound returns 404 before any ownership check
func (suite *TaskHandlerTestSuite) TestUpdateTask_NotFound() {
	user := suite.createTestUser("user-1", "one@example.com")

	body, _ := json.Marshal(map[string]interface{}{"title": "Nothing here"})
	c, w := suite.createAuthContext("PATCH", "/api/tasks/42", body, user.ID)
	suite.setIDParam(c, "42")
	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestDeleteTask_Success returns 204 and removes join rows
func (suite *TaskHandlerTestSuite) TestDeleteTask_Success() {
	creator := suite.createTestUser("user-1", "one@example.com")
	assignee := suite.createTestUser("user-2", "two@example.com")
	task := suite.createTestTask("Disposable", creator.ID)
	suite.assignUser(task.ID, assignee.ID)

	c, w := suite.createAuthContext("DELETE", "/api/tasks/1", nil, creator.ID)
	suite.setIDParam(c, "1")
	suite.handler.DeleteTask(c)
	// Direct handler invocation bypasses gin's engine, which normally flushes
	// the deferred status write for bodyless responses after the handler runs.
	c.Writer.WriteHeaderNow()

	assert.Equal(suite.T(), http.StatusNoContent, w.Code)
	assert.Empty(suite.T(), w.Body.Bytes())

	var taskCount, joinCount int64
	suite.db.Model(&models.Task{}).Count(&taskCount)
	suite.db.Model(&models.TaskAssignee{}).Where("task_id = ?", task.ID).Count(&joinCount)
	assert.Equal(suite.T(), int64(0), taskCount)
	assert.Equal(suite.T(), int64(0), joinCount)
}

// TestDeleteTask_NonCreatorForbidden: only the creator may delete
func (suite *TaskHandlerTestSuite) TestDeleteTask_NonCreatorForbidden() {
	creator := suite.createTestUser("user-1", "one@example.com")
	stranger := suite.createTestUser("user-2", "two@example.com")
	suite.createTestTask("Keep out", creator.ID)

	c, w := suite.createAuthContext("DELETE", "/api/tasks/1", nil, stranger.ID)
	suite.setIDParam(c, "1")
	suite.handler.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestDeleteTask_NotFound returns 404 for unknown IDs
func (suite *TaskHandlerTestSuite) TestDeleteTask_NotFound() {
	user := suite.createTestUser("user-1", "one@example.com")

	c, w := suite.createAuthContext("DELETE", "/api/tasks/7", nil, user.ID)
	suite.setIDParam(c, "7")
	suite.handler.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
