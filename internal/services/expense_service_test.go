package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"granaia/internal/models"
	"granaia/internal/pagination"
	"granaia/internal/testutil"
)

func TestCreateExpense(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		expense, err := svc.Create(user.Remotejid, "  Mercado  ", decimal.NewFromFloat(55.90), models.CategoryAlimentacao, nil)
		testutil.AssertNoError(t, err)

		if expense.ID == "" {
			t.Fatal("expected non-empty expense ID")
		}
		if expense.Descricao != "Mercado" {
			t.Errorf("expected trimmed description, got %q", expense.Descricao)
		}
		if expense.Data.IsZero() {
			t.Error("expected event date to default to now")
		}
	})

	t.Run("rounds_amount_half_up", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		amount, _ := decimal.NewFromString("10.005")
		expense, err := svc.Create(user.Remotejid, "Café", amount, models.CategoryAlimentacao, nil)
		testutil.AssertNoError(t, err)

		if !expense.Valor.Equal(decimal.NewFromFloat(10.01)) {
			t.Errorf("expected 10.01, got %s", expense.Valor)
		}
	})

	t.Run("rejects_non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Create(user.Remotejid, "Nada", decimal.Zero, models.CategoryOutros, nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		_, err = svc.Create(user.Remotejid, "Negativo", decimal.NewFromInt(-5), models.CategoryOutros, nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("rejects_unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Create(user.Remotejid, "Cripto", decimal.NewFromInt(10), models.Category("Investimentos"), nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("rejects_unknown_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)

		_, err := svc.Create("5500000000000@s.whatsapp.net", "Mercado", decimal.NewFromInt(10), models.CategoryAlimentacao, nil)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})

	t.Run("explicit_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		when := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
		expense, err := svc.Create(user.Remotejid, "Passagem", decimal.NewFromInt(120), models.CategoryTransporte, &when)
		testutil.AssertNoError(t, err)
		if !expense.Data.Equal(when) {
			t.Errorf("expected event date %s, got %s", when, expense.Data)
		}
	})
}

func TestGetExpense(t *testing.T) {
	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)

		_, err := svc.GetByID("00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}

func TestListExpenses(t *testing.T) {
	page := pagination.PageRequest{Page: 1, PageSize: 20}

	t.Run("filters_by_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		a := testutil.CreateTestUser(t, db)
		b := testutil.CreateTestUser(t, db)

		testutil.CreateTestExpense(t, db, a.Remotejid, decimal.NewFromInt(10), models.CategoryAlimentacao)
		testutil.CreateTestExpense(t, db, a.Remotejid, decimal.NewFromInt(20), models.CategoryLazer)
		testutil.CreateTestExpense(t, db, b.Remotejid, decimal.NewFromInt(30), models.CategoryLazer)

		_, total, err := svc.List(page, EntryFilter{Usuario: &a.Remotejid})
		testutil.AssertNoError(t, err)
		if total != 2 {
			t.Errorf("expected 2 expenses for owner, got %d", total)
		}
	})

	t.Run("filters_by_category_substring", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestExpense(t, db, user.Remotejid, decimal.NewFromInt(10), models.CategoryTransporte)
		testutil.CreateTestExpense(t, db, user.Remotejid, decimal.NewFromInt(20), models.CategoryLazer)

		categoria := "transp"
		_, total, err := svc.List(page, EntryFilter{Usuario: &user.Remotejid, Categoria: &categoria})
		testutil.AssertNoError(t, err)
		if total != 1 {
			t.Errorf("expected 1 expense matching category, got %d", total)
		}
	})

	t.Run("filters_by_amount_range_inclusive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestExpense(t, db, user.Remotejid, decimal.NewFromInt(10), models.CategoryOutros)
		testutil.CreateTestExpense(t, db, user.Remotejid, decimal.NewFromInt(50), models.CategoryOutros)
		testutil.CreateTestExpense(t, db, user.Remotejid, decimal.NewFromInt(100), models.CategoryOutros)

		min := decimal.NewFromInt(10)
		max := decimal.NewFromInt(50)
		_, total, err := svc.List(page, EntryFilter{Usuario: &user.Remotejid, ValorMin: &min, ValorMax: &max})
		testutil.AssertNoError(t, err)
		if total != 2 {
			t.Errorf("expected 2 expenses in [10, 50], got %d", total)
		}
	})

	t.Run("paginates_with_total", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < 5; i++ {
			testutil.CreateTestExpense(t, db, user.Remotejid, decimal.NewFromInt(int64(i+1)), models.CategoryOutros)
		}

		small := pagination.PageRequest{Page: 2, PageSize: 2}
		expenses, total, err := svc.List(small, EntryFilter{Usuario: &user.Remotejid})
		testutil.AssertNoError(t, err)
		if total != 5 {
			t.Errorf("expected total 5, got %d", total)
		}
		if len(expenses) != 2 {
			t.Errorf("expected 2 expenses on page 2, got %d", len(expenses))
		}
	})
}

func TestUpdateExpense(t *testing.T) {
	t.Run("partial", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, user.Remotejid, decimal.NewFromInt(10), models.CategoryOutros)

		valor := decimal.NewFromFloat(25.555)
		updated, err := svc.Update(expense.ID, nil, &valor, nil, nil)
		testutil.AssertNoError(t, err)

		if !updated.Valor.Equal(decimal.NewFromFloat(25.56)) {
			t.Errorf("expected rounded 25.56, got %s", updated.Valor)
		}
		if updated.Categoria != models.CategoryOutros {
			t.Errorf("category should be untouched, got %s", updated.Categoria)
		}
	})

	t.Run("rejects_invalid_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, user.Remotejid, decimal.NewFromInt(10), models.CategoryOutros)

		zero := decimal.Zero
		_, err := svc.Update(expense.ID, nil, &zero, nil, nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		bad := models.Category("Apostas")
		_, err = svc.Update(expense.ID, nil, nil, &bad, nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)

		descricao := "x"
		_, err := svc.Update("00000000-0000-0000-0000-000000000000", &descricao, nil, nil, nil)
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}

func TestDeleteExpense(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	user := testutil.CreateTestUser(t, db)
	expense := testutil.CreateTestExpense(t, db, user.Remotejid, decimal.NewFromInt(10), models.CategoryOutros)

	err := svc.Delete(expense.ID)
	testutil.AssertNoError(t, err)

	_, err = svc.GetByID(expense.ID)
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
}

func TestExpenseDashboard(t *testing.T) {
	t.Run("totals_match_breakdown", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestExpense(t, db, user.Remotejid, decimal.NewFromFloat(10.50), models.CategoryAlimentacao)
		testutil.CreateTestExpense(t, db, user.Remotejid, decimal.NewFromFloat(20.25), models.CategoryAlimentacao)
		testutil.CreateTestExpense(t, db, user.Remotejid, decimal.NewFromInt(100), models.CategoryMoradia)

		dash, err := svc.Dashboard(DashboardFilter{Usuario: &user.Remotejid})
		testutil.AssertNoError(t, err)

		if dash.Quantidade != 3 {
			t.Errorf("expected 3 rows counted, got %d", dash.Quantidade)
		}
		if !dash.Total.Equal(decimal.NewFromFloat(130.75)) {
			t.Errorf("expected total 130.75, got %s", dash.Total)
		}

		var sum decimal.Decimal
		var count int64
		for _, c := range dash.PorCategoria {
			sum = sum.Add(c.Total)
			count += c.Quantidade
		}
		if !sum.Equal(dash.Total) || count != dash.Quantidade {
			t.Errorf("breakdown (%s, %d) does not match overall (%s, %d)", sum, count, dash.Total, dash.Quantidade)
		}

		// Sorted by per-category total descending.
		if dash.PorCategoria[0].Categoria != models.CategoryMoradia {
			t.Errorf("expected Moradia first, got %s", dash.PorCategoria[0].Categoria)
		}
	})

	t.Run("empty_result", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		dash, err := svc.Dashboard(DashboardFilter{Usuario: &user.Remotejid})
		testutil.AssertNoError(t, err)

		if !dash.Total.IsZero() || dash.Quantidade != 0 {
			t.Errorf("expected zero totals, got (%s, %d)", dash.Total, dash.Quantidade)
		}
		if dash.PorCategoria == nil || len(dash.PorCategoria) != 0 {
			t.Errorf("expected empty breakdown slice, got %v", dash.PorCategoria)
		}
	})

	t.Run("date_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		old := testutil.CreateTestExpense(t, db, user.Remotejid, decimal.NewFromInt(10), models.CategoryOutros)
		db.Model(old).Update("data", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestExpense(t, db, user.Remotejid, decimal.NewFromInt(40), models.CategoryOutros)

		since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		dash, err := svc.Dashboard(DashboardFilter{Usuario: &user.Remotejid, DataInicio: &since})
		testutil.AssertNoError(t, err)

		if dash.Quantidade != 1 || !dash.Total.Equal(decimal.NewFromInt(40)) {
			t.Errorf("expected only the recent expense, got (%s, %d)", dash.Total, dash.Quantidade)
		}
	})
}
