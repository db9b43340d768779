package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with its user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps storage-layer errors onto error codes and messages the
// API can return. Sensitive driver detail never reaches the client.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An unexpected error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// PostgreSQL constraint violations

	// unique_violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// foreign_key_violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr, context)
	}

	// not_null_violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr)
	}

	// check_violation (23514)
	if strings.Contains(errStrLower, "check constraint") {
		return parseCheckConstraintError(errStr)
	}

	// Connectivity
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A downstream service is unavailable. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email address is already in use",
		}
	}

	if strings.Contains(errLower, "slug") || strings.Contains(errLower, "idx_products_slug") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This product slug is already in use",
		}
	}

	if strings.Contains(errLower, "idx_cart_product") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This product is already in the cart",
		}
	}

	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "idx_customers_user_id") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "A customer profile already exists for this account",
		}
	}

	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This record already exists. Please try again",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)
	contextLower := strings.ToLower(context)

	// Deleting a row other rows still reference
	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		if strings.Contains(contextLower, "collection") {
			return ErrorInfo{
				Code:    CollectionNotEmpty,
				Message: "Collection cannot be deleted because it includes one or more products.",
			}
		}
		if strings.Contains(contextLower, "product") {
			return ErrorInfo{
				Code:    ProductInOrder,
				Message: "Product cannot be deleted because it is associated with an order item.",
			}
		}
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "This record cannot be deleted because other records depend on it",
		}
	}

	// Referencing a row that does not exist
	if strings.Contains(errLower, "collection_id") || strings.Contains(errLower, "fk_collections") {
		return ErrorInfo{
			Code:    CollectionNotFound,
			Message: "The referenced collection does not exist",
		}
	}
	if strings.Contains(errLower, "product_id") || strings.Contains(errLower, "fk_products") {
		return ErrorInfo{
			Code:    ProductNotFound,
			Message: "The referenced product does not exist",
		}
	}
	if strings.Contains(errLower, "cart_id") || strings.Contains(errLower, "fk_carts") {
		return ErrorInfo{
			Code:    CartNotFound,
			Message: "The referenced cart does not exist",
		}
	}
	if strings.Contains(errLower, "customer_id") || strings.Contains(errLower, "fk_customers") {
		return ErrorInfo{
			Code:    CustomerNotFound,
			Message: "The referenced customer does not exist",
		}
	}
	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "fk_users") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "The referenced user does not exist",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record could not be found",
	}
}

func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: ValidationRequired, Message: "Email is required"}
	}
	if strings.Contains(errLower, "password") {
		return ErrorInfo{Code: ValidationRequired, Message: "Password is required"}
	}
	if strings.Contains(errLower, "title") {
		return ErrorInfo{Code: ValidationRequired, Message: "Title is required"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "A required field is missing",
	}
}

func parseCheckConstraintError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "unit_price") {
		return ErrorInfo{
			Code:    ValidationInvalidRange,
			Message: "Unit price must be greater than zero",
		}
	}
	if strings.Contains(errLower, "quantity") {
		return ErrorInfo{
			Code:    ValidationInvalidRange,
			Message: "Quantity must be greater than zero",
		}
	}
	if strings.Contains(errLower, "inventory") {
		return ErrorInfo{
			Code:    ValidationInvalidRange,
			Message: "Inventory cannot be negative",
		}
	}

	return ErrorInfo{
		Code:    ValidationInvalidInput,
		Message: "Invalid input",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "collection") {
		return "Collection not found"
	}
	if strings.Contains(contextLower, "product") {
		return "Product not found"
	}
	if strings.Contains(contextLower, "review") {
		return "Review not found"
	}
	if strings.Contains(contextLower, "cart") {
		return "Cart not found"
	}
	if strings.Contains(contextLower, "order") {
		return "Order not found"
	}
	if strings.Contains(contextLower, "customer") {
		return "Customer not found"
	}
	if strings.Contains(contextLower, "user") {
		return "User not found"
	}

	return "The requested record could not be found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") {
		return "An error occurred while creating the record. Please try again later"
	}
	if strings.Contains(contextLower, "update") {
		return "An error occurred while updating the record. Please try again later"
	}
	if strings.Contains(contextLower, "delete") {
		return "An error occurred while deleting the record. Please try again later"
	}

	return "An unexpected error occurred. Please try again later"
}
