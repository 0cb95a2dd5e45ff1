package dto

type CreateReportRequest struct {
	ContentType    string `json:"content_type"`
	ContentID      string `json:"content_id"`
	ContentOwnerID string `json:"content_owner_id"`
	OwnerName      string `json:"owner_name"`
	Reason         string `json:"reason"`
	Detail         string `json:"detail"`
}

type ActionReportRequest struct {
	Status    string `json:"status"`
	AdminNote string `json:"admin_note"`
}

type BlockRequest struct {
	BlockedID string `json:"blocked_id"`
}
