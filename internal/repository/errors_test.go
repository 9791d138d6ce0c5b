package repository

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{gorm.ErrDuplicatedKey, true},
		{fmt.Errorf("create order: %w", gorm.ErrDuplicatedKey), true},
		{errors.New("UNIQUE constraint failed: orders.order_number"), true},
		{errors.New(`ERROR: duplicate key value violates unique constraint "idx_orders_order_number" (SQLSTATE 23505)`), true},
		{errors.New("database is locked"), false},
	}
	for _, tc := range cases {
		if got := IsUniqueViolation(tc.err); got != tc.want {
			t.Fatalf("IsUniqueViolation(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
