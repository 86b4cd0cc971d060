package assignments

import (
	"sort"

	"github.com/kunoez/ks-inventory-sub000/pkg/metadata"
	"github.com/kunoez/ks-inventory-sub000/pkg/models"
)

const (
	// recentPerStream rows are fetched from each assignment table before
	// merging; activityCap bounds the merged feed.
	recentPerStream = 15
	activityCap     = 20
)

type ActivityService struct {
	repo ActivityRepository
}

func NewActivityService(repo ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// GetRecentActivity merges the three assignment streams into one feed
// ordered by creation time, newest first. Total reports the merged size
// before the cap is applied, not the global row count.
func (s *ActivityService) GetRecentActivity(companyID *int) (*models.ActivityFeed, error) {
	devices, err := s.repo.GetRecentDeviceAssignments(companyID, recentPerStream)
	if err != nil {
		return nil, err
	}
	licenses, err := s.repo.GetRecentLicenseAssignments(companyID, recentPerStream)
	if err != nil {
		return nil, err
	}
	phones, err := s.repo.GetRecentPhoneAssignments(companyID, recentPerStream)
	if err != nil {
		return nil, err
	}

	activities := make([]models.Activity, 0, len(devices)+len(licenses)+len(phones))
	for i := range devices {
		activities = append(activities, deviceActivity(&devices[i]))
	}
	for i := range licenses {
		activities = append(activities, licenseActivity(&licenses[i]))
	}
	for i := range phones {
		activities = append(activities, phoneActivity(&phones[i]))
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})

	total := len(activities)
	if len(activities) > activityCap {
		activities = activities[:activityCap]
	}

	return &models.ActivityFeed{Activities: activities, Total: total}, nil
}

// Device and phone assignments close as returned; anything else terminal
// (lost) reads as revoked. Licenses close as revoked, so the fallback
// reads as returned instead.

func deviceAction(status metadata.AssignmentStatus) string {
	switch status {
	case metadata.AssignmentActive:
		return "assigned"
	case metadata.AssignmentReturned:
		return "returned"
	default:
		return "revoked"
	}
}

func licenseAction(status metadata.AssignmentStatus) string {
	switch status {
	case metadata.AssignmentActive:
		return "assigned"
	case metadata.AssignmentRevoked:
		return "revoked"
	default:
		return "returned"
	}
}

func deviceActivity(detail *models.DeviceAssignmentDetail) models.Activity {
	return models.Activity{
		ID:           detail.ID,
		Type:         "device",
		Action:       deviceAction(detail.Status),
		Status:       detail.Status,
		Timestamp:    detail.CreatedAt,
		AssignedDate: detail.AssignedDate,
		ReturnedDate: detail.ReturnDate,
		Employee:     detail.Employee.Name,
		Item:         detail.Device.Name,
		ActionBy:     detail.AssignedBy,
		Notes:        detail.Notes,
	}
}

func licenseActivity(detail *models.LicenseAssignmentDetail) models.Activity {
	return models.Activity{
		ID:           detail.ID,
		Type:         "license",
		Action:       licenseAction(detail.Status),
		Status:       detail.Status,
		Timestamp:    detail.CreatedAt,
		AssignedDate: detail.AssignedDate,
		ReturnedDate: detail.RevokedDate,
		Employee:     detail.Employee.Name,
		Item:         detail.License.Name,
		ActionBy:     detail.AssignedBy,
		Notes:        detail.Notes,
	}
}

func phoneActivity(detail *models.PhoneAssignmentDetail) models.Activity {
	return models.Activity{
		ID:           detail.ID,
		Type:         "phone",
		Action:       deviceAction(detail.Status),
		Status:       detail.Status,
		Timestamp:    detail.CreatedAt,
		AssignedDate: detail.AssignedDate,
		ReturnedDate: detail.ReturnDate,
		Employee:     detail.Employee.Name,
		Item:         detail.Contract.Provider + " " + detail.Contract.PhoneNumber,
		ActionBy:     detail.AssignedBy,
		Notes:        detail.Notes,
	}
}
