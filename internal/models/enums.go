package models

// Role is the portal role supplied by the identity provider.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleWarehouse Role = "warehouse"
	RoleTransport Role = "transport"
	RoleEngineer  Role = "engineer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleWarehouse, RoleTransport, RoleEngineer:
		return true
	}
	return false
}

// Status is shared by every document kind; each kind accepts only the subset
// its state machine declares.
type Status string

const (
	StatusDraft           Status = "draft"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
	StatusInspected       Status = "inspected"
	StatusIssued          Status = "issued"
	StatusPending         Status = "pending"
	StatusCompleted       Status = "completed"
	StatusPass            Status = "pass"
	StatusFail            Status = "fail"
	StatusConditional     Status = "conditional"
	StatusInProgress      Status = "in_progress"
	StatusCancelled       Status = "cancelled"
	StatusOpen            Status = "open"
	StatusResolved        Status = "resolved"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on_hold"
)

type SupplierCategory string

const (
	SupplierLocal         SupplierCategory = "local"
	SupplierInternational SupplierCategory = "international"
	SupplierManufacturer  SupplierCategory = "manufacturer"
)

type SupplierStatus string

const (
	SupplierActive      SupplierStatus = "active"
	SupplierInactive    SupplierStatus = "inactive"
	SupplierBlacklisted SupplierStatus = "blacklisted"
)

type JobOrderType string

const (
	JobMaterialRequest JobOrderType = "material_request"
	JobTransfer        JobOrderType = "transfer"
	JobReturn          JobOrderType = "return"
	JobInspection      JobOrderType = "inspection"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type ReturnType string

const (
	ReturnSurplus         ReturnType = "surplus"
	ReturnDamaged         ReturnType = "damaged"
	ReturnWrongItem       ReturnType = "wrong_item"
	ReturnProjectComplete ReturnType = "project_complete"
)

type InspectionType string

const (
	InspectionVisual        InspectionType = "visual"
	InspectionDimensional   InspectionType = "dimensional"
	InspectionFunctional    InspectionType = "functional"
	InspectionDocumentation InspectionType = "documentation"
)

type InspectionPriority string

const (
	InspectionNormal   InspectionPriority = "normal"
	InspectionUrgent   InspectionPriority = "urgent"
	InspectionCritical InspectionPriority = "critical"
)

type OSDType string

const (
	OSDOver   OSDType = "over"
	OSDShort  OSDType = "short"
	OSDDamage OSDType = "damage"
)

type OSDAction string

const (
	OSDActionRMS     OSDAction = "rms"
	OSDActionCredit  OSDAction = "credit"
	OSDActionReplace OSDAction = "replace"
)

type ApprovalLevel string

const (
	ApprovalLevelStorekeeper      ApprovalLevel = "level_1_storekeeper"
	ApprovalLevelLogisticsManager ApprovalLevel = "level_2_logistics_manager"
	ApprovalLevelDepartmentHead   ApprovalLevel = "level_3_department_head"
)

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)
