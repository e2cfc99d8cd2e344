package mapper

import (
	"slot-swapper/modules/notification/dto"
	"slot-swapper/modules/notification/entity"
)

func ToNotificationDTO(n *entity.Notification) dto.NotificationResponse {
	data := map[string]any(n.Data)
	if data == nil {
		data = map[string]any{}
	}
	return dto.NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Data:      data,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func ToPaginatedNotificationDTO(page *entity.PaginatedNotificationEntity) *dto.PaginatedNotificationResponse {
	items := make([]dto.NotificationResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToNotificationDTO(&page.Items[i]))
	}
	return &dto.PaginatedNotificationResponse{
		Items:      items,
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}
}
