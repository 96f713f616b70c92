package service

import (
	"testing"
	"time"

	"github.com/bigkaa/gofilehub/internal/domain/model"
)

func TestMetadataCache_SetGet(t *testing.T) {
	c := NewMetadataCache(16, time.Minute)

	f := &model.File{ID: "file-1", Name: "image.png", IsPublic: true}
	c.Set(f.ID, f)

	got, ok := c.Get("file-1")
	if !ok {
		t.Fatal("Get() не нашёл добавленную запись")
	}
	if got.Name != "image.png" {
		t.Errorf("Name = %q, ожидалось image.png", got.Name)
	}

	if _, ok := c.Get("file-2"); ok {
		t.Error("Get() вернул запись для неизвестного ключа")
	}
}

func TestMetadataCache_Delete(t *testing.T) {
	c := NewMetadataCache(16, time.Minute)

	c.Set("file-1", &model.File{ID: "file-1"})
	c.Delete("file-1")

	if _, ok := c.Get("file-1"); ok {
		t.Error("запись осталась в кэше после Delete()")
	}

	// Удаление отсутствующего ключа безопасно
	c.Delete("file-2")
}

func TestMetadataCache_Eviction(t *testing.T) {
	c := NewMetadataCache(2, time.Minute)

	c.Set("a", &model.File{ID: "a"})
	c.Set("b", &model.File{ID: "b"})
	c.Set("c", &model.File{ID: "c"})

	// Самая старая запись вытеснена по размеру
	if _, ok := c.Get("a"); ok {
		t.Error("запись не вытеснена при превышении размера")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("свежая запись отсутствует в кэше")
	}
}

func TestMetadataCache_TTL(t *testing.T) {
	c := NewMetadataCache(16, 20*time.Millisecond)

	c.Set("file-1", &model.File{ID: "file-1"})
	time.Sleep(60 * time.Millisecond)

	if _, ok := c.Get("file-1"); ok {
		t.Error("запись пережила TTL")
	}
}
