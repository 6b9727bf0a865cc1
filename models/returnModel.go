package models

import "gorm.io/gorm"

type ReturnStatus string
type ReturnStage string

const (
	ReturnPending   ReturnStatus = "pending"
	ReturnApproved  ReturnStatus = "approved"
	ReturnRejected  ReturnStatus = "rejected"
	ReturnCompleted ReturnStatus = "completed"

	StageRequested       ReturnStage = "requested"
	StageApproved        ReturnStage = "approved"
	StagePickupScheduled ReturnStage = "pickup_scheduled"
	StagePickedUp        ReturnStage = "picked_up"
	StageInTransit       ReturnStage = "in_transit"
	StageReceived        ReturnStage = "received"
	StageInspected       ReturnStage = "inspected"
	StageRefundInitiated ReturnStage = "refund_initiated"
	StageRefundCompleted ReturnStage = "refund_completed"
)

// ReturnStages lists the post-approval return timeline in order.
var ReturnStages = []ReturnStage{
	StageRequested,
	StageApproved,
	StagePickupScheduled,
	StagePickedUp,
	StageInTransit,
	StageReceived,
	StageInspected,
	StageRefundInitiated,
	StageRefundCompleted,
}

type Return struct {
	gorm.Model
	OrderID      uint         `json:"orderId" gorm:"uniqueIndex"`
	UserID       uint         `json:"userId" gorm:"index"`
	Reason       string       `json:"reason"`
	Status       ReturnStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	ReturnStatus ReturnStage  `json:"returnStatus" gorm:"type:varchar(20);default:'requested'"`
	Order        Order        `json:"order" gorm:"foreignKey:OrderID"`
}
