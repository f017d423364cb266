package enums

import "fmt"

// CustomerType mirrors the plan variant the customer currently holds.
// Customers without a plan carry CustomerTypeNone.
type CustomerType string

const (
	CustomerTypePrepaid  CustomerType = "PREPAID"
	CustomerTypePostpaid CustomerType = "POSTPAID"
	CustomerTypeNone     CustomerType = "N/A"
)

var validCustomerTypes = []CustomerType{
	CustomerTypePrepaid,
	CustomerTypePostpaid,
	CustomerTypeNone,
}

// String implements fmt.Stringer.
func (c CustomerType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CustomerType.
func (c CustomerType) IsValid() bool {
	for _, candidate := range validCustomerTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCustomerType converts the raw string to CustomerType.
func ParseCustomerType(value string) (CustomerType, error) {
	for _, candidate := range validCustomerTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer type %q", value)
}

// CustomerTypeForPlan maps a plan variant onto the customer marker.
func CustomerTypeForPlan(planType PlanType) CustomerType {
	switch planType {
	case PlanTypePrepaid:
		return CustomerTypePrepaid
	case PlanTypePostpaid:
		return CustomerTypePostpaid
	default:
		return CustomerTypeNone
	}
}
