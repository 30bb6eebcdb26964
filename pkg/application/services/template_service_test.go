package services

import (
	"context"
	"errors"
	"testing"

	fixtures "github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/application/services/testing"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/infrastructure/repositories/memory"
)

func TestSeedDefaultTemplateIsIdempotent(t *testing.T) {
	templates := memory.NewTemplateRepository()
	service := NewTemplateService(templates)
	ctx := context.Background()

	first, err := service.SeedDefaultTemplate(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("Expected seed to succeed, got %v", err)
	}
	if !first.IsDefault {
		t.Error("Expected seeded template to be the default")
	}
	if len(first.Steps) != 5 {
		t.Errorf("Expected 5 steps in the standard route, got %d", len(first.Steps))
	}
	if first.Steps[0].OperationType != entities.Forging {
		t.Errorf("Expected first step FORGING, got %s", first.Steps[0].OperationType)
	}
	if !first.Steps[2].Optional {
		t.Error("Expected machining step to be optional")
	}

	second, err := service.SeedDefaultTemplate(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("Expected second seed to succeed, got %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Expected existing default %s returned, got %s", first.ID, second.ID)
	}
}

func TestCreateTemplateRejectsDefaultFlag(t *testing.T) {
	service := NewTemplateService(memory.NewTemplateRepository())

	template := fixtures.MustTemplate("tpl-1", "tenant-1", "Custom Route", true,
		entities.Forging, entities.Dispatch)
	err := service.CreateTemplate(context.Background(), template)
	if !errors.Is(err, entities.ErrDefaultTemplateImmutable) {
		t.Errorf("Expected ErrDefaultTemplateImmutable, got %v", err)
	}
}

func TestCreateTemplateRejectsDuplicateName(t *testing.T) {
	service := NewTemplateService(memory.NewTemplateRepository())
	ctx := context.Background()

	first := fixtures.MustTemplate("tpl-1", "tenant-1", "Custom Route", false,
		entities.Forging, entities.Dispatch)
	if err := service.CreateTemplate(ctx, first); err != nil {
		t.Fatalf("Expected create to succeed, got %v", err)
	}

	clash := fixtures.MustTemplate("tpl-2", "tenant-1", "Custom Route", false,
		entities.Forging, entities.HeatTreatment, entities.Dispatch)
	if err := service.CreateTemplate(ctx, clash); err == nil {
		t.Error("Expected duplicate template name to be rejected")
	}
}

func TestUpdateTemplateGuards(t *testing.T) {
	templates := memory.NewTemplateRepository()
	service := NewTemplateService(templates)
	ctx := context.Background()

	seeded, err := service.SeedDefaultTemplate(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("Expected seed to succeed, got %v", err)
	}

	custom := fixtures.MustTemplate("tpl-1", "tenant-1", "Custom Route", false,
		entities.Forging, entities.HeatTreatment, entities.Dispatch)
	if err := service.CreateTemplate(ctx, custom); err != nil {
		t.Fatalf("Expected create to succeed, got %v", err)
	}

	// The seeded default is immutable
	seeded.Name = "Renamed Default"
	if err := service.UpdateTemplate(ctx, seeded); !errors.Is(err, entities.ErrDefaultTemplateImmutable) {
		t.Errorf("Expected ErrDefaultTemplateImmutable, got %v", err)
	}

	// Rename of a custom template is allowed
	renamed := fixtures.MustTemplate("tpl-1", "tenant-1", "Renamed Route", false,
		entities.Forging, entities.HeatTreatment, entities.Dispatch)
	if err := service.UpdateTemplate(ctx, renamed); err != nil {
		t.Fatalf("Expected rename to succeed, got %v", err)
	}
	stored, err := service.GetTemplate(ctx, "tpl-1")
	if err != nil {
		t.Fatalf("Expected template lookup to succeed, got %v", err)
	}
	if stored.Name != "Renamed Route" {
		t.Errorf("Expected renamed template, got %s", stored.Name)
	}

	// Structural edits are rejected once the template exists
	restructured := fixtures.MustTemplate("tpl-1", "tenant-1", "Renamed Route", false,
		entities.Forging, entities.Dispatch)
	if err := service.UpdateTemplate(ctx, restructured); err == nil {
		t.Error("Expected structural edit to be rejected")
	}
}

func TestDeactivateTemplate(t *testing.T) {
	templates := memory.NewTemplateRepository()
	service := NewTemplateService(templates)
	ctx := context.Background()

	seeded, err := service.SeedDefaultTemplate(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("Expected seed to succeed, got %v", err)
	}
	if err := service.DeactivateTemplate(ctx, seeded.ID); !errors.Is(err, entities.ErrDefaultTemplateImmutable) {
		t.Errorf("Expected ErrDefaultTemplateImmutable, got %v", err)
	}

	custom := fixtures.MustTemplate("tpl-1", "tenant-1", "Custom Route", false,
		entities.Forging, entities.Dispatch)
	if err := service.CreateTemplate(ctx, custom); err != nil {
		t.Fatalf("Expected create to succeed, got %v", err)
	}
	if err := service.DeactivateTemplate(ctx, "tpl-1"); err != nil {
		t.Fatalf("Expected deactivate to succeed, got %v", err)
	}
	stored, err := service.GetTemplate(ctx, "tpl-1")
	if err != nil {
		t.Fatalf("Expected template lookup to succeed, got %v", err)
	}
	if stored.IsActive {
		t.Error("Expected template to be inactive after deactivation")
	}

	all, err := service.ListTemplates(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("Expected list to succeed, got %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 templates for tenant, got %d", len(all))
	}
}
