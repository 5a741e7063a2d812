package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mryoshq/Accounting-AI/internal/core"
)

func TestSupplier_CRUD(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewSupplierService(pool)

	var supplierID int

	t.Run("CreateSupplier_Success", func(t *testing.T) {
		s, err := svc.CreateSupplier(ctx, core.SupplierInput{
			Name:       "Maghreb Steel",
			ICE:        "001234567000089",
			PostalCode: "20250",
		})
		if err != nil {
			t.Fatalf("CreateSupplier: %v", err)
		}
		if s.ID == 0 {
			t.Error("expected supplier ID to be set")
		}
		if s.Name != "Maghreb Steel" {
			t.Errorf("expected name 'Maghreb Steel', got %s", s.Name)
		}
		if s.RIB != nil {
			t.Errorf("expected nil RIB, got %v", *s.RIB)
		}
		supplierID = s.ID
	})

	t.Run("UpdateSupplier_Partial", func(t *testing.T) {
		rib := "011810000001234567890123"
		s, err := svc.UpdateSupplier(ctx, supplierID, core.SupplierUpdate{RIB: &rib})
		if err != nil {
			t.Fatalf("UpdateSupplier: %v", err)
		}
		if s.RIB == nil || *s.RIB != rib {
			t.Errorf("expected RIB %q, got %v", rib, s.RIB)
		}
		if s.Name != "Maghreb Steel" {
			t.Errorf("partial update must not touch name, got %s", s.Name)
		}
	})

	t.Run("GetSupplier_NotFound", func(t *testing.T) {
		_, err := svc.GetSupplier(ctx, 99999)
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Contacts_ScopedToSupplier", func(t *testing.T) {
		_, err := svc.CreateSupplierContact(ctx, core.SupplierContactInput{
			SupplierID:  supplierID,
			ContactName: "Karim Alaoui",
			Email:       "k.alaoui@maghrebsteel.ma",
		})
		if err != nil {
			t.Fatalf("CreateSupplierContact: %v", err)
		}

		contacts, err := svc.GetContactsBySupplier(ctx, supplierID)
		if err != nil {
			t.Fatalf("GetContactsBySupplier: %v", err)
		}
		if len(contacts) != 1 {
			t.Fatalf("expected 1 contact, got %d", len(contacts))
		}
		if contacts[0].ContactName != "Karim Alaoui" {
			t.Errorf("unexpected contact name %s", contacts[0].ContactName)
		}
		if contacts[0].PhoneNumber != nil {
			t.Errorf("expected nil phone number, got %v", *contacts[0].PhoneNumber)
		}
	})

	t.Run("CreateContact_MissingSupplier", func(t *testing.T) {
		_, err := svc.CreateSupplierContact(ctx, core.SupplierContactInput{
			SupplierID:  99999,
			ContactName: "Nobody",
		})
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteSupplier_CascadesContacts", func(t *testing.T) {
		if err := svc.DeleteSupplier(ctx, supplierID); err != nil {
			t.Fatalf("DeleteSupplier: %v", err)
		}
		contacts, total, err := svc.GetSupplierContacts(ctx, 0, 0)
		if err != nil {
			t.Fatalf("GetSupplierContacts: %v", err)
		}
		if len(contacts) != 0 || total != 0 {
			t.Errorf("expected contacts removed with supplier, got %d (total %d)", len(contacts), total)
		}
	})

	t.Run("DeleteSupplier_NotFound", func(t *testing.T) {
		err := svc.DeleteSupplier(ctx, supplierID)
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSupplier_Pagination(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewSupplierService(pool)

	names := []string{"Atlas Metals", "Birtal", "Comadit", "Dolidol", "Elec Maroc"}
	for _, name := range names {
		if _, err := svc.CreateSupplier(ctx, core.SupplierInput{Name: name, ICE: "001234567000089"}); err != nil {
			t.Fatalf("CreateSupplier %s: %v", name, err)
		}
	}

	t.Run("WindowedPage_ReportsFullTotal", func(t *testing.T) {
		page, total, err := svc.GetSuppliers(ctx, 1, 2)
		if err != nil {
			t.Fatalf("GetSuppliers: %v", err)
		}
		if len(page) != 2 {
			t.Fatalf("expected page of 2, got %d", len(page))
		}
		if total != len(names) {
			t.Errorf("expected total %d, got %d", len(names), total)
		}
		if page[0].Name != "Birtal" || page[1].Name != "Comadit" {
			t.Errorf("unexpected page contents: %s, %s", page[0].Name, page[1].Name)
		}
	})

	t.Run("SkipPastEnd_EmptyPage", func(t *testing.T) {
		page, total, err := svc.GetSuppliers(ctx, 10, 2)
		if err != nil {
			t.Fatalf("GetSuppliers: %v", err)
		}
		if len(page) != 0 {
			t.Errorf("expected empty page, got %d rows", len(page))
		}
		if total != len(names) {
			t.Errorf("expected total %d, got %d", len(names), total)
		}
	})

	t.Run("ZeroLimit_UsesDefault", func(t *testing.T) {
		page, total, err := svc.GetSuppliers(ctx, 0, 0)
		if err != nil {
			t.Fatalf("GetSuppliers: %v", err)
		}
		if len(page) != len(names) || total != len(names) {
			t.Errorf("expected all %d suppliers, got %d (total %d)", len(names), len(page), total)
		}
	})
}
