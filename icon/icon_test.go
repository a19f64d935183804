package icon

import (
	"testing"

	"github.com/goflix/goflix/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestRegistry(t *testing.T) {
	Convey("Every icon identifier should be registered", t, func() {
		for i := Fail; i <= Category; i++ {
			_, ok := icons[i]
			So(ok, ShouldBeTrue)
		}
	})
}

func TestGet(t *testing.T) {
	Convey("Given a registered icon", t, func() {
		target := Play

		Convey("It renders correctly for each variant", func() {
			for _, variant := range AvailableVariants() {
				Convey("variant="+variant, func() {
					viper.Set(key.IconsVariant, variant)
					result := Get(target)
					So(result, ShouldNotBeEmpty)
				})
			}
		})

		Convey("It returns empty for an unknown variant", func() {
			viper.Set(key.IconsVariant, "")
			result := Get(target)
			So(result, ShouldBeEmpty)
		})
	})
}
