package constants

// 用户角色常量
const (
	RoleAdmin    = "ADMIN"
	RoleDelivery = "DELIVERY"
	RoleUser     = "USER"
)

// 订单项交付状态常量
const (
	DeliveryStatusNotStarted = "NOT_STARTED"
	DeliveryStatusPending    = "PENDING"
	DeliveryStatusInProgress = "IN_PROGRESS"
	DeliveryStatusCompleted  = "COMPLETED"
)

// DeliveryStatuses 交付状态（按流程顺序，仅用于展示与校验，不限制跳转）
var DeliveryStatuses = []string{
	DeliveryStatusNotStarted,
	DeliveryStatusPending,
	DeliveryStatusInProgress,
	DeliveryStatusCompleted,
}

// DeliveryStatusLabels 交付状态展示名
var DeliveryStatusLabels = map[string]string{
	DeliveryStatusNotStarted: "Not Started",
	DeliveryStatusPending:    "Pending",
	DeliveryStatusInProgress: "In Progress",
	DeliveryStatusCompleted:  "Completed",
}

// 购物车常量
const (
	CartDefaultColorVariant = "Default"
	CartDriverDatabase      = "database"
	CartDriverRedis         = "redis"
)

// 报价单常量
const (
	QuotationNumberPrefix = "QT"
	QuotationTitle        = "QUOTATION"
)

// 上传场景常量
const (
	UploadSceneProduct = "product"
	UploadScenePreview = "preview"
)

// 队列常量
const (
	QueueDefault = "default"

	TaskProductImageCleanup = "product:image_cleanup"
)
