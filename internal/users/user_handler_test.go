package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	custom_error "github.com/kunoez/ks-inventory-sub000/pkg/errors"
	"github.com/kunoez/ks-inventory-sub000/pkg/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) PersistUser(req models.CreateUserRequest, hashedPassword []byte) error {
	args := m.Called(req, hashedPassword)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(id int) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUsers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(id int, changes *models.UserChanges) error {
	args := m.Called(id, changes)
	return args.Error(0)
}

func setupRouter(repo UserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(repo)

	// Routes registered without the auth middleware; authorization is
	// covered by the security package tests.
	router.POST("/users", handler.RegisterUser)
	router.GET("/users/:id", handler.GetUser)
	router.GET("/users", handler.GetUserList)
	router.PATCH("/users/:id", handler.UpdateUser)
	return router
}

func TestRegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	router := setupRouter(mockRepo)

	mockRepo.On("PersistUser", mock.Anything, mock.Anything).Return(nil).Once()

	body, _ := json.Marshal(models.CreateUserRequest{
		Username: "jdoe",
		Fullname: "Jane Doe",
		Password: "secret123",
		Role:     "user",
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestRegisterUserInvalidPayload(t *testing.T) {
	mockRepo := new(MockUserRepository)
	router := setupRouter(mockRepo)

	body, _ := json.Marshal(map[string]string{"username": "jdoe"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "PersistUser", mock.Anything, mock.Anything)
}

func TestGetUserNotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	router := setupRouter(mockRepo)

	mockRepo.On("GetUser", 42).Return(nil, custom_error.NotFound("user %d not found", 42)).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/users/42", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUserList(t *testing.T) {
	mockRepo := new(MockUserRepository)
	router := setupRouter(mockRepo)

	mockRepo.On("GetUsers").Return([]models.User{
		{ID: 1, Username: "jdoe", Fullname: "Jane Doe", Role: "admin"},
	}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/users", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var users []models.User
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 1)
	assert.Equal(t, "jdoe", users[0].Username)
}

func TestUpdateUserNoChanges(t *testing.T) {
	mockRepo := new(MockUserRepository)
	router := setupRouter(mockRepo)

	existing := &models.User{ID: 7, Username: "jdoe", Fullname: "Jane Doe", Role: "user"}
	mockRepo.On("GetUser", 7).Return(existing, nil).Once()

	role := "user"
	body, _ := json.Marshal(models.UpdateUserRequest{Role: &role})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/users/7", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
}
