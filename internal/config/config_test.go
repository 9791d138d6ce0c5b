package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestSetDefaultsDecode(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := decode(v)
	if err != nil {
		t.Fatalf("decode defaults failed: %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("database driver want sqlite got %s", cfg.Database.Driver)
	}
	if cfg.Cart.Driver != "database" {
		t.Fatalf("cart driver want database got %s", cfg.Cart.Driver)
	}
	if cfg.Security.PasswordMinLength != 6 {
		t.Fatalf("password min length want 6 got %d", cfg.Security.PasswordMinLength)
	}
	if cfg.Quotation.Currency != "PKR" || cfg.Quotation.CompanyName != "B2B Portal" {
		t.Fatalf("unexpected quotation defaults: %+v", cfg.Quotation)
	}
	if cfg.Storage.PublicPrefix != "/uploads" {
		t.Fatalf("storage public prefix want /uploads got %s", cfg.Storage.PublicPrefix)
	}
}

func TestDecodeOverride(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("server.port", "9090")
	v.Set("cart.driver", "redis")

	cfg, err := decode(v)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("server port want 9090 got %s", cfg.Server.Port)
	}
	if cfg.Cart.Driver != "redis" {
		t.Fatalf("cart driver want redis got %s", cfg.Cart.Driver)
	}
}
