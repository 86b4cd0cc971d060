package assignments

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kunoez/ks-inventory-sub000/pkg/metadata"
	"github.com/kunoez/ks-inventory-sub000/pkg/models"
)

func newTestRouter(repo *MockAssignmentRepository, activityRepo *MockActivityRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(newTestService(repo), NewActivityService(activityRepo), nil)
	router := gin.New()
	handler.RegisterRoutes(router)
	return router
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAssignDeviceHandlerRejectsInvalidPayload(t *testing.T) {
	router := newTestRouter(new(MockAssignmentRepository), new(MockActivityRepository))

	w := performRequest(router, http.MethodPost, "/assignments/devices", gin.H{"device_id": 1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request payload")
}

func TestAssignDeviceHandlerDeviceNotFound(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	router := newTestRouter(mockRepo, new(MockActivityRepository))

	mockRepo.On("GetDeviceForUpdate", mock.Anything, 42).Return(nil, nil).Once()

	w := performRequest(router, http.MethodPost, "/assignments/devices", gin.H{
		"device_id":   42,
		"employee_id": 5,
		"assigned_by": "admin@example.com",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "device 42 not found")
	mockRepo.AssertExpectations(t)
}

func TestAssignDeviceHandlerConflictWhenNotAvailable(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	router := newTestRouter(mockRepo, new(MockActivityRepository))

	device := availableDevice(1)
	device.Status = metadata.DeviceAssigned
	mockRepo.On("GetDeviceForUpdate", mock.Anything, 1).Return(device, nil).Once()

	w := performRequest(router, http.MethodPost, "/assignments/devices", gin.H{
		"device_id":   1,
		"employee_id": 5,
		"assigned_by": "admin@example.com",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestReturnDeviceHandlerRejectsBadID(t *testing.T) {
	router := newTestRouter(new(MockAssignmentRepository), new(MockActivityRepository))

	w := performRequest(router, http.MethodPut, "/assignments/devices/abc/return", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid assignment ID")
}

func TestReturnDeviceHandlerRejectsClosedAssignment(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	router := newTestRouter(mockRepo, new(MockActivityRepository))

	closed := &models.DeviceAssignment{ID: 9, DeviceID: 1, EmployeeID: 5, Status: metadata.AssignmentReturned}
	mockRepo.On("GetDeviceAssignmentForUpdate", mock.Anything, 9).Return(closed, nil).Once()

	w := performRequest(router, http.MethodPut, "/assignments/devices/9/return", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not active")
	mockRepo.AssertExpectations(t)
}

func TestRecomputeLicenseSeatsHandler(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	router := newTestRouter(mockRepo, new(MockActivityRepository))

	mockRepo.On("GetLicenseForUpdate", mock.Anything, 3).Return(activeLicense(3, 10), nil).Once()
	mockRepo.On("SyncLicenseSeatCount", mock.Anything, 3).Return(4, nil).Once()

	w := performRequest(router, http.MethodPost, "/assignments/licenses/3/recompute", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]int
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body["license_id"])
	assert.Equal(t, 4, body["current_users"])
	mockRepo.AssertExpectations(t)
}

func TestRecomputeLicenseSeatsHandlerNotFound(t *testing.T) {
	mockRepo := new(MockAssignmentRepository)
	router := newTestRouter(mockRepo, new(MockActivityRepository))

	mockRepo.On("GetLicenseForUpdate", mock.Anything, 404).Return(nil, nil).Once()

	w := performRequest(router, http.MethodPost, "/assignments/licenses/404/recompute", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestGetRecentActivityHandler(t *testing.T) {
	activityRepo := new(MockActivityRepository)
	router := newTestRouter(new(MockAssignmentRepository), activityRepo)

	activityRepo.On("GetRecentDeviceAssignments", (*int)(nil), uint(recentPerStream)).
		Return([]models.DeviceAssignmentDetail{}, nil).Once()
	activityRepo.On("GetRecentLicenseAssignments", (*int)(nil), uint(recentPerStream)).
		Return([]models.LicenseAssignmentDetail{}, nil).Once()
	activityRepo.On("GetRecentPhoneAssignments", (*int)(nil), uint(recentPerStream)).
		Return([]models.PhoneAssignmentDetail{}, nil).Once()

	w := performRequest(router, http.MethodGet, "/assignments/activity", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var feed models.ActivityFeed
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	assert.Empty(t, feed.Activities)
	assert.Equal(t, 0, feed.Total)
	activityRepo.AssertExpectations(t)
}

func TestGetRecentActivityHandlerRejectsBadCompanyID(t *testing.T) {
	router := newTestRouter(new(MockAssignmentRepository), new(MockActivityRepository))

	w := performRequest(router, http.MethodGet, "/assignments/activity?company_id=abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid company_id")
}

func TestGetDeviceAssignmentsHandler(t *testing.T) {
	activityRepo := new(MockActivityRepository)
	router := newTestRouter(new(MockAssignmentRepository), activityRepo)

	activityRepo.On("GetRecentDeviceAssignments", mock.AnythingOfType("*int"), uint(0)).
		Return([]models.DeviceAssignmentDetail{}, nil).Once()

	w := performRequest(router, http.MethodGet, "/assignments/devices?company_id=1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	activityRepo.AssertExpectations(t)
}
