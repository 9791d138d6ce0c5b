package repository

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page     int
	PageSize int
	Category string
	Search   string
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint // 为 0 时不限用户（交付视图）
	OrderNumber string
	WithUser    bool
}

// QuotationListFilter 查询报价单记录的过滤条件
type QuotationListFilter struct {
	Page     int
	PageSize int
	UserID   uint
}

// AuthzAuditLogListFilter 查询权限审计日志的过滤条件
type AuthzAuditLogListFilter struct {
	Page        int
	PageSize    int
	Action      string
	Role        string
	TargetEmail string
}
