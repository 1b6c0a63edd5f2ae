package middleware

import (
	"strings"

	httpError "earnings-service/src/pkg/http-error"
	"earnings-service/src/pkg/token"
	"earnings-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

const authLocalKey = "auth"

// VerifyBearer validates the Authorization header and stores the claim for
// handlers. HS256 with a shared secret; the auth service owns issuance.
func VerifyBearer(config *viper.Viper) fiber.Handler {
	secret := []byte(config.GetString("jwt.secret"))

	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "missing bearer token"
			return utils.ResponseError(errObj, ctx)
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !parsed.Valid {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "invalid token"
			return utils.ResponseError(errObj, ctx)
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "invalid token claims"
			return utils.ResponseError(errObj, ctx)
		}

		claim := &token.Claim{}
		if iss, ok := claims["iss"].(string); ok {
			claim.Iss = iss
		}
		if meta, ok := claims["metadata"].(map[string]interface{}); ok {
			if userID, ok := meta["user_id"].(string); ok {
				claim.Metadata.UserID = userID
			}
			if fullName, ok := meta["full_name"].(string); ok {
				claim.Metadata.FullName = fullName
			}
			if role, ok := meta["role"].(string); ok {
				claim.Metadata.Role = role
			}
		}

		ctx.Locals(authLocalKey, claim)
		return ctx.Next()
	}
}

// GetUser returns the claim stored by VerifyBearer.
func GetUser(ctx *fiber.Ctx) *token.Claim {
	if claim, ok := ctx.Locals(authLocalKey).(*token.Claim); ok {
		return claim
	}
	return &token.Claim{}
}
