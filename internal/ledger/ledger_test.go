package ledger_test

import (
	"testing"
	"time"

	"seramik-backend/internal/ledger"
	"seramik-backend/internal/models"
)

func TestWalletBalance(t *testing.T) {
	db := newTestDB(t)
	p := newPerson(t, db, "Berna")

	d := day(2025, time.September, 1)
	mustCreate(t, db, &models.Payment{PersonID: p.ID, Amount: 500, Method: models.PaymentMethodCash, Cleared: true, Date: d})
	mustCreate(t, db, &models.Payment{PersonID: p.ID, Amount: 250.555, Method: models.PaymentMethodIBAN, Cleared: true, Date: d})
	// tahsil edilmemiş ödeme bakiyeye girmez
	mustCreate(t, db, &models.Payment{PersonID: p.ID, Amount: 1000, Method: models.PaymentMethodIBAN, Cleared: false, Date: d})
	mustCreate(t, db, &models.Charge{PersonID: p.ID, Amount: 600, Date: d})

	bal, err := ledger.WalletBalance(db, p.ID)
	if err != nil {
		t.Fatalf("WalletBalance: %v", err)
	}
	if bal != 150.56 {
		t.Fatalf("bakiye beklenen 150.56, gelen %v", bal)
	}

	// başka kişinin hareketleri karışmamalı
	other := newPerson(t, db, "Seda")
	mustCreate(t, db, &models.Payment{PersonID: other.ID, Amount: 9999, Method: models.PaymentMethodCash, Cleared: true, Date: d})
	bal2, err := ledger.WalletBalance(db, p.ID)
	if err != nil {
		t.Fatalf("WalletBalance: %v", err)
	}
	if bal2 != bal {
		t.Fatalf("başka kişinin ödemesi bakiyeyi değiştirdi: %v -> %v", bal, bal2)
	}
}

func TestWalletBalanceNegativeMeansDebt(t *testing.T) {
	db := newTestDB(t)
	p := newPerson(t, db, "Borçlu")

	d := day(2025, time.September, 5)
	mustCreate(t, db, &models.Charge{PersonID: p.ID, Amount: 500, Date: d})
	mustCreate(t, db, &models.Payment{PersonID: p.ID, Amount: 200, Method: models.PaymentMethodCash, Cleared: true, Date: d})

	bal, err := ledger.WalletBalance(db, p.ID)
	if err != nil {
		t.Fatalf("WalletBalance: %v", err)
	}
	if bal != -300 {
		t.Fatalf("bakiye beklenen -300, gelen %v", bal)
	}
}

func TestWalletBalanceOrderIndependence(t *testing.T) {
	// Aynı hareket kümesi iki farklı sırayla eklendiğinde sonuç aynı olmalı.
	type mov struct {
		pay    bool
		amount float64
	}
	movs := []mov{{true, 120.10}, {false, 75.25}, {true, 30}, {false, 99.99}, {true, 0.14}}

	run := func(order []int) float64 {
		db := newTestDB(t)
		p := newPerson(t, db, "Sıra")
		d := day(2025, time.October, 1)
		for _, i := range order {
			m := movs[i]
			if m.pay {
				mustCreate(t, db, &models.Payment{PersonID: p.ID, Amount: m.amount, Method: models.PaymentMethodCash, Cleared: true, Date: d})
			} else {
				mustCreate(t, db, &models.Charge{PersonID: p.ID, Amount: m.amount, Date: d})
			}
		}
		bal, err := ledger.WalletBalance(db, p.ID)
		if err != nil {
			t.Fatalf("WalletBalance: %v", err)
		}
		return bal
	}

	fwd := run([]int{0, 1, 2, 3, 4})
	rev := run([]int{4, 3, 2, 1, 0})
	if fwd != rev {
		t.Fatalf("ekleme sırası sonucu değiştirdi: %v != %v", fwd, rev)
	}
	if fwd != -25 {
		t.Fatalf("bakiye beklenen -25, gelen %v", fwd)
	}
}

func TestCashOnHand(t *testing.T) {
	db := newTestDB(t)
	p := newPerson(t, db, "Müşteri")
	d := day(2025, time.September, 10)

	const opening = 1000.0

	base, err := ledger.CashOnHand(db, opening)
	if err != nil {
		t.Fatalf("CashOnHand: %v", err)
	}
	if base != opening {
		t.Fatalf("boş kasada açılış bekleniyordu: %v", base)
	}

	// nakit tahsilat kasayı tam tutar kadar artırır
	mustCreate(t, db, &models.Payment{PersonID: p.ID, Amount: 350.50, Method: models.PaymentMethodCash, Cleared: true, Date: d})
	after, err := ledger.CashOnHand(db, opening)
	if err != nil {
		t.Fatalf("CashOnHand: %v", err)
	}
	if after != base+350.50 {
		t.Fatalf("nakit tahsilat sonrası beklenen %v, gelen %v", base+350.50, after)
	}

	// IBAN tahsilat kasaya girmez
	mustCreate(t, db, &models.Payment{PersonID: p.ID, Amount: 500, Method: models.PaymentMethodIBAN, Cleared: true, Date: d})
	// tahsil edilmemiş nakit de girmez
	mustCreate(t, db, &models.Payment{PersonID: p.ID, Amount: 700, Method: models.PaymentMethodCash, Cleared: false, Date: d})
	same, err := ledger.CashOnHand(db, opening)
	if err != nil {
		t.Fatalf("CashOnHand: %v", err)
	}
	if same != after {
		t.Fatalf("IBAN/uncleared kasayı etkiledi: %v -> %v", after, same)
	}

	// kasadan harcama tam tutar kadar düşer
	mustCreate(t, db, &models.Expense{Amount: 120.25, Category: models.ExpenseCategorySupplies, PaidFrom: models.ExpenseSourceCash, Date: d})
	final, err := ledger.CashOnHand(db, opening)
	if err != nil {
		t.Fatalf("CashOnHand: %v", err)
	}
	if final != same-120.25 {
		t.Fatalf("harcama sonrası beklenen %v, gelen %v", same-120.25, final)
	}
}

func TestStockBalance(t *testing.T) {
	db := newTestDB(t)
	m := newMaterial(t, db, "Çamur – Şamotlu")
	d := day(2025, time.September, 3)

	mustCreate(t, db, &models.StockMovement{MaterialID: m.ID, Direction: models.MovementIn, Qty: 20, UnitCost: fptr(5), Source: models.MovementSourcePurchase, Date: d})
	mustCreate(t, db, &models.StockMovement{MaterialID: m.ID, Direction: models.MovementOut, Qty: 5, Source: models.MovementSourceConsumption, Date: d})

	bal, err := ledger.StockBalance(db, m.ID)
	if err != nil {
		t.Fatalf("StockBalance: %v", err)
	}
	if bal != 15 {
		t.Fatalf("stok beklenen 15.000, gelen %v", bal)
	}

	// "adjust" hareketi kayda girer ama bakiyeyi değiştirmez
	mustCreate(t, db, &models.StockMovement{MaterialID: m.ID, Direction: models.MovementAdjust, Qty: 1000, Source: models.MovementSourceAdjust, Date: d})
	bal2, err := ledger.StockBalance(db, m.ID)
	if err != nil {
		t.Fatalf("StockBalance: %v", err)
	}
	if bal2 != 15 {
		t.Fatalf("adjust bakiyeye girdi: %v", bal2)
	}
}

func TestStockBalanceRounding(t *testing.T) {
	db := newTestDB(t)
	m := newMaterial(t, db, "Sır – Şeffaf")
	d := day(2025, time.September, 3)

	mustCreate(t, db, &models.StockMovement{MaterialID: m.ID, Direction: models.MovementIn, Qty: 0.1, UnitCost: fptr(1), Source: models.MovementSourcePurchase, Date: d})
	mustCreate(t, db, &models.StockMovement{MaterialID: m.ID, Direction: models.MovementIn, Qty: 0.2, UnitCost: fptr(1), Source: models.MovementSourcePurchase, Date: d})
	mustCreate(t, db, &models.StockMovement{MaterialID: m.ID, Direction: models.MovementOut, Qty: 0.0004, Source: models.MovementSourceTest, Date: d})

	bal, err := ledger.StockBalance(db, m.ID)
	if err != nil {
		t.Fatalf("StockBalance: %v", err)
	}
	if bal != 0.3 {
		t.Fatalf("3 haneye yuvarlanmış 0.300 bekleniyordu, gelen %v", bal)
	}
}

func TestWeightedAverageCost(t *testing.T) {
	db := newTestDB(t)
	m := newMaterial(t, db, "Astar – Beyaz")
	d := day(2025, time.September, 8)

	// (10×5 + 5×8) / 15 = 6.0000
	mustCreate(t, db, &models.StockMovement{MaterialID: m.ID, Direction: models.MovementIn, Qty: 10, UnitCost: fptr(5), Source: models.MovementSourcePurchase, Date: d})
	mustCreate(t, db, &models.StockMovement{MaterialID: m.ID, Direction: models.MovementIn, Qty: 5, UnitCost: fptr(8), Source: models.MovementSourcePurchase, Date: d})
	// çıkışlar WAC'ı etkilemez
	mustCreate(t, db, &models.StockMovement{MaterialID: m.ID, Direction: models.MovementOut, Qty: 12, Source: models.MovementSourceConsumption, Date: d})

	wac, err := ledger.WeightedAverageCost(db, m.ID)
	if err != nil {
		t.Fatalf("WeightedAverageCost: %v", err)
	}
	if wac == nil || *wac != 6 {
		t.Fatalf("WAC beklenen 6.0000, gelen %v", wac)
	}
}

func TestWeightedAverageCostUndefinedWhenNoInflow(t *testing.T) {
	db := newTestDB(t)
	m := newMaterial(t, db, "Boya – Kobalt")

	wac, err := ledger.WeightedAverageCost(db, m.ID)
	if err != nil {
		t.Fatalf("WeightedAverageCost: %v", err)
	}
	if wac != nil {
		t.Fatalf("giriş yokken WAC tanımsız (nil) olmalı, gelen %v", *wac)
	}
}

func TestWeightedAverageCostNilUnitCostCountsAsZero(t *testing.T) {
	db := newTestDB(t)
	m := newMaterial(t, db, "Alçı")
	d := day(2025, time.September, 8)

	mustCreate(t, db, &models.StockMovement{MaterialID: m.ID, Direction: models.MovementIn, Qty: 10, UnitCost: fptr(6), Source: models.MovementSourcePurchase, Date: d})
	mustCreate(t, db, &models.StockMovement{MaterialID: m.ID, Direction: models.MovementIn, Qty: 10, UnitCost: nil, Source: models.MovementSourceAdjust, Date: d})

	wac, err := ledger.WeightedAverageCost(db, m.ID)
	if err != nil {
		t.Fatalf("WeightedAverageCost: %v", err)
	}
	if wac == nil || *wac != 3 {
		t.Fatalf("maliyetsiz giriş 0 sayılmalı (beklenen 3.0000), gelen %v", wac)
	}
}

func TestWeightedAverageCostRounding(t *testing.T) {
	db := newTestDB(t)
	m := newMaterial(t, db, "Sır – Mat")
	d := day(2025, time.September, 8)

	// 10 / 3 = 3.3333...
	mustCreate(t, db, &models.StockMovement{MaterialID: m.ID, Direction: models.MovementIn, Qty: 3, UnitCost: fptr(10.0 / 3.0), Source: models.MovementSourcePurchase, Date: d})

	wac, err := ledger.WeightedAverageCost(db, m.ID)
	if err != nil {
		t.Fatalf("WeightedAverageCost: %v", err)
	}
	if wac == nil || *wac != 3.3333 {
		t.Fatalf("4 haneye yuvarlanmış 3.3333 bekleniyordu, gelen %v", wac)
	}
}

func TestUnclearedPaymentPersistsAsUncleared(t *testing.T) {
	db := newTestDB(t)
	p := newPerson(t, db, "Askıda")

	d := day(2025, time.September, 1)
	mustCreate(t, db, &models.Payment{PersonID: p.ID, Amount: 1000, Method: models.PaymentMethodCash, Cleared: false, Date: d})

	var stored models.Payment
	if err := db.Where("person_id = ?", p.ID).First(&stored).Error; err != nil {
		t.Fatalf("ödeme okunamadı: %v", err)
	}
	if stored.Cleared {
		t.Fatalf("Cleared=false yazıldı ama veritabanından true okundu")
	}

	bal, err := ledger.WalletBalance(db, p.ID)
	if err != nil {
		t.Fatalf("WalletBalance: %v", err)
	}
	if bal != 0 {
		t.Fatalf("tahsil edilmemiş ödeme bakiyeye girdi: %v", bal)
	}

	cash, err := ledger.CashOnHand(db, 0)
	if err != nil {
		t.Fatalf("CashOnHand: %v", err)
	}
	if cash != 0 {
		t.Fatalf("tahsil edilmemiş ödeme kasaya girdi: %v", cash)
	}
}
