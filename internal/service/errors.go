package service

import (
	"errors"
	"fmt"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
)

// ErrorKind 业务错误分类
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindAuthorization
	KindConflict
	KindNotFound
	KindDependency
)

// String 分类名称（用于日志）
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindDependency:
		return "dependency_failure"
	default:
		return "unknown"
	}
}

// DomainError 带分类的业务错误，Msg 可直接返回给客户端
type DomainError struct {
	Kind ErrorKind
	Msg  string
}

func (e *DomainError) Error() string {
	return e.Msg
}

func newDomainError(kind ErrorKind, msg string) *DomainError {
	return &DomainError{Kind: kind, Msg: msg}
}

// 通用错误
var (
	ErrNotFound     = newDomainError(KindNotFound, "resource not found")
	ErrUnauthorized = newDomainError(KindAuthorization, "unauthorized")
	ErrInternal     = newDomainError(KindDependency, "internal server error")
)

// 账号相关错误
var (
	ErrInvalidEmail       = newDomainError(KindValidation, "invalid email")
	ErrInvalidRole        = newDomainError(KindValidation, "invalid role")
	ErrWeakPassword       = newDomainError(KindValidation, "password is too short")
	ErrEmailExists        = newDomainError(KindConflict, "User already exists")
	ErrInvalidCredentials = newDomainError(KindAuthorization, "invalid email or password")
	ErrUserNotFound       = newDomainError(KindNotFound, "user not found")
)

// 商品相关错误
var (
	ErrProductNotFound       = newDomainError(KindNotFound, "product not found")
	ErrProductNameRequired   = newDomainError(KindValidation, "product name is required")
	ErrProductPriceInvalid   = newDomainError(KindValidation, "price must be greater than 0")
	ErrProductStockInvalid   = newDomainError(KindValidation, "stock must not be negative")
	ErrColorVariantRequired  = newDomainError(KindValidation, "color variant is required")
	ErrColorVariantDuplicate = newDomainError(KindValidation, "duplicate color variant")
	ErrColorVariantNotFound  = newDomainError(KindNotFound, "color variant not found")
	ErrProductImageDuplicate = newDomainError(KindValidation, "duplicate product image")
	ErrProductImageNotFound  = newDomainError(KindNotFound, "product image not found")
)

// 购物车相关错误
var (
	ErrCartEmpty           = newDomainError(KindValidation, "cart is empty")
	ErrCartItemNotFound    = newDomainError(KindNotFound, "cart item not found")
	ErrInvalidQuantity     = newDomainError(KindValidation, "quantity must be at least 1")
	ErrInsufficientStock   = newDomainError(KindValidation, "insufficient stock")
	ErrColorVariantInvalid = newDomainError(KindValidation, "color variant is not available for this product")
	ErrCartBusy            = newDomainError(KindConflict, "cart is being updated, please retry")
)

// 订单与交付相关错误
var (
	ErrOrderNumberRequired   = newDomainError(KindValidation, "PO Number is required")
	ErrOrderNumberExists     = newDomainError(KindConflict, "Order number already exists")
	ErrOrderItemsRequired    = newDomainError(KindValidation, "order must contain at least one item")
	ErrOrderNotFound         = newDomainError(KindNotFound, "order not found")
	ErrOrderItemNotFound     = newDomainError(KindNotFound, "order item not found")
	ErrInvalidDeliveryStatus = newDomainError(KindValidation, "invalid delivery status")
)

// 报价单相关错误
var (
	ErrQuotationRenderFailed   = newDomainError(KindDependency, "failed to generate quotation")
	ErrQuotationRecordFailed   = newDomainError(KindDependency, "failed to record quotation")
	ErrQuotationNumberRequired = newDomainError(KindValidation, "quotation number is required")
	ErrQuotationItemsRequired  = newDomainError(KindValidation, "quotation must contain at least one item")
)

// 上传相关错误
var (
	ErrUploadNoFiles       = newDomainError(KindValidation, "no files uploaded")
	ErrUploadNoValidImages = newDomainError(KindValidation, "no valid image files uploaded")
	ErrUploadInvalidFile   = newDomainError(KindValidation, "invalid upload file")
	ErrPreviewNotFound     = newDomainError(KindNotFound, "preview not found")
	ErrStorageFailed       = newDomainError(KindDependency, "storage failure")
)

// KindOf 解析错误分类；未分类的错误视为依赖失败
func KindOf(err error) ErrorKind {
	if err == nil {
		return 0
	}
	if errors.Is(err, authz.ErrUnauthenticated) || errors.Is(err, authz.ErrForbidden) {
		return KindAuthorization
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindDependency
}

// PublicMessage 返回可暴露给客户端的错误信息
func PublicMessage(err error) string {
	switch KindOf(err) {
	case KindAuthorization:
		return ErrUnauthorized.Msg
	case KindDependency:
		return ErrInternal.Msg
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Msg
	}
	return ErrInternal.Msg
}

// wrapCause 以业务错误包装底层原因；已分类的错误原样返回
func wrapCause(kind *DomainError, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
