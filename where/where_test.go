package where

import (
	"path/filepath"
	"testing"

	"github.com/goflix/goflix/filesystem"
	"github.com/goflix/goflix/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestWhere(t *testing.T) {
	Convey("Given a custom config path", t, func() {
		t.Setenv(EnvConfigPath, filepath.Join("tmp", "goflix-test"))

		Convey("Config should use it", func() {
			So(Config(), ShouldEqual, filepath.Join("tmp", "goflix-test"))
		})

		Convey("Logs should live under the config directory", func() {
			So(Logs(), ShouldEqual, filepath.Join("tmp", "goflix-test", "logs"))
		})

		Convey("Catalog should default to the config directory", func() {
			viper.Set(key.CatalogPath, "")
			So(Catalog(), ShouldEqual, filepath.Join("tmp", "goflix-test", "catalog.json"))
		})

		Convey("Catalog should honor catalog.path", func() {
			viper.Set(key.CatalogPath, "/srv/media/catalog.json")
			defer viper.Set(key.CatalogPath, "")
			So(Catalog(), ShouldEqual, "/srv/media/catalog.json")
		})
	})
}
