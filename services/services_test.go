package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sinemagic_server/config"
	"sinemagic_server/structs"
	"strings"
	"testing"
	"time"
)

func TestLocalRateLimitWindow(t *testing.T) {
	ctx := context.Background()
	cs := NewCacheService(config.NewLogger(false), nil)

	for want := 1; want <= 3; want++ {
		got, err := cs.IncrementRateLimit(ctx, "1.2.3.4", "/orders", time.Minute)
		if err != nil || got != want {
			t.Fatalf("increment %d: got %d, %v", want, got, err)
		}
	}

	if got, _ := cs.IncrementRateLimit(ctx, "1.2.3.4", "/reviews", time.Minute); got != 1 {
		t.Errorf("expected a separate counter per endpoint, got %d", got)
	}

	if got, _ := cs.IncrementRateLimit(ctx, "5.6.7.8", "/short", time.Nanosecond); got != 1 {
		t.Fatalf("expected first increment to be 1, got %d", got)
	}
	time.Sleep(time.Millisecond)
	if got, _ := cs.IncrementRateLimit(ctx, "5.6.7.8", "/short", time.Nanosecond); got != 1 {
		t.Errorf("expected the window to restart, got %d", got)
	}
}

func TestLocalBlacklist(t *testing.T) {
	ctx := context.Background()
	cs := NewCacheService(config.NewLogger(false), nil)

	if revoked, _ := cs.IsTokenBlacklisted(ctx, "jti-1"); revoked {
		t.Fatal("expected unknown token not to be revoked")
	}
	_ = cs.BlacklistToken(ctx, "jti-1", time.Hour)
	if revoked, _ := cs.IsTokenBlacklisted(ctx, "jti-1"); !revoked {
		t.Fatal("expected token to be revoked")
	}

	_ = cs.BlacklistToken(ctx, "jti-2", time.Nanosecond)
	time.Sleep(time.Millisecond)
	cs.PruneLocal()
	if revoked, _ := cs.IsTokenBlacklisted(ctx, "jti-2"); revoked {
		t.Error("expected expired entry to be gone")
	}
}

func TestRenderOrderEmail(t *testing.T) {
	body, err := renderOrderEmail(structs.Order{
		ID:            "3f2504e0-4f89-11d3-9a0c-0305e82c3301",
		CustomerName:  "<Иван>",
		CustomerPhone: "+79990000000",
		Address:       "Москва",
		Items:         []structs.OrderItem{{ProductName: "Игрушка", Quantity: 3, Price: "1500"}},
		Total:         4500,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"SM-3F2504E0", "4500.00", "&lt;Иван&gt;", "3 × 1500"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in body:\n%s", want, body)
		}
	}
}

func TestEmailDisabledWithoutKey(t *testing.T) {
	es := NewEmailService(config.NewLogger(false), &structs.EmailConfig{ShopEmail: "shop@example.com"})
	if es.Enabled() {
		t.Fatal("expected notifications to be disabled without an API key")
	}
	es.OrderPlaced(context.Background(), structs.Order{ID: "x"})
	es.Wait(time.Second)
}

func TestOptimizeFitsImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for x := 0; x < 400; x++ {
		for y := 0; y < 200; y++ {
			src.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var in bytes.Buffer
	if err := png.Encode(&in, src); err != nil {
		t.Fatalf("encode: %v", err)
	}

	ms, err := NewMediaService(config.NewLogger(false), &structs.MediaConfig{MaxDimension: 100, Quality: 80})
	if err != nil {
		t.Fatalf("new media service: %v", err)
	}
	if ms.Enabled() {
		t.Error("expected uploads disabled without a Cloudinary URL")
	}

	data, w, h, err := ms.Optimize(&in)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if w != 100 || h != 50 {
		t.Errorf("expected 100x50, got %dx%d", w, h)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Error("expected JPEG output")
	}

	if _, err := ms.UploadProductImage(context.Background(), bytes.NewReader(in.Bytes())); err != ErrMediaDisabled {
		t.Errorf("expected ErrMediaDisabled, got %v", err)
	}
}
