package ledger_test

import (
	"testing"

	"seramik-backend/internal/ledger"
	"seramik-backend/internal/models"
)

func TestPriceForEnrollmentPrecedence(t *testing.T) {
	course := models.Course{DefaultPrice: 300}
	sess := models.Session{PriceOverride: fptr(200)}
	enr := models.Enrollment{PriceOverride: fptr(100)}

	// kayıt > seans > ders
	if got := ledger.PriceForEnrollment(&enr, &sess, &course); got != 100 {
		t.Fatalf("kayıt override'ı kazanmalı: %v", got)
	}

	enr.PriceOverride = nil
	if got := ledger.PriceForEnrollment(&enr, &sess, &course); got != 200 {
		t.Fatalf("seans override'ı kazanmalı: %v", got)
	}

	sess.PriceOverride = nil
	if got := ledger.PriceForEnrollment(&enr, &sess, &course); got != 300 {
		t.Fatalf("ders varsayılanı kalmalı: %v", got)
	}
}

func TestPriceForEnrollmentZeroDefault(t *testing.T) {
	enr := models.Enrollment{}
	sess := models.Session{}
	course := models.Course{}
	if got := ledger.PriceForEnrollment(&enr, &sess, &course); got != 0 {
		t.Fatalf("hiçbir fiyat yokken 0 dönmeli: %v", got)
	}
}

func TestPriceForEnrollmentNegativeOverridePropagates(t *testing.T) {
	// İşaret kontrolü yok: negatif override olduğu gibi geçer.
	enr := models.Enrollment{PriceOverride: fptr(-50)}
	sess := models.Session{}
	course := models.Course{DefaultPrice: 300}
	if got := ledger.PriceForEnrollment(&enr, &sess, &course); got != -50 {
		t.Fatalf("negatif override geçmeli: %v", got)
	}
}
