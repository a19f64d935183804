package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "MemMapFS")
		})

		Convey("Should reject writes when read-only", func() {
			SetMemMapFs()
			So(API().WriteFile("/a.txt", []byte("a"), 0644), ShouldBeNil)

			SetReadOnly()
			So(API().WriteFile("/b.txt", []byte("b"), 0644), ShouldNotBeNil)

			data, err := API().ReadFile("/a.txt")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "a")

			SetMemMapFs()
		})
	})
}
