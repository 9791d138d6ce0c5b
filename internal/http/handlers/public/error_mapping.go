package public

import (
	handlershared "github.com/Umair-Web/BTOBPortal/internal/http/handlers/shared"
	"github.com/Umair-Web/BTOBPortal/internal/http/response"
	"github.com/Umair-Web/BTOBPortal/internal/service"

	"github.com/gin-gonic/gin"
)

// 登录失败需要给出明确提示，其余鉴权失败统一为 unauthorized
var loginErrorRules = []handlershared.MappedError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Msg: service.ErrInvalidCredentials.Msg},
}

// 报价单生成时购物车为空属于输入错误
var quotationErrorRules = []handlershared.MappedError{
	{Target: service.ErrCartEmpty, Code: response.CodeBadRequest, Msg: "cart is empty, add items before requesting a quotation"},
}

func respondWithMappedError(c *gin.Context, err error, rules []handlershared.MappedError) {
	handlershared.RespondMappedError(c, err, rules)
}

func respondServiceError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err)
}
