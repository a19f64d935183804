package util

import (
	"testing"

	"github.com/goflix/goflix/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "title", "titles"), ShouldEqual, "1 title")
		So(Quantify(2, "title", "titles"), ShouldEqual, "2 titles")
		So(Quantify(0, "title", "titles"), ShouldEqual, "0 titles")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestMaxMinClamp(t *testing.T) {
	Convey("Max/Min", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
		So(Max[int](), ShouldEqual, 0)
	})

	Convey("Clamp", t, func() {
		So(Clamp(int64(150000), 0, 120000), ShouldEqual, 120000)
		So(Clamp(int64(-5), 0, 120000), ShouldEqual, 0)
		So(Clamp(0.5, 0, 1), ShouldEqual, 0.5)

		Convey("An inverted range should collapse to the lower bound", func() {
			So(Clamp(10, 0, -1), ShouldEqual, 0)
		})
	})
}

func TestFormatMillis(t *testing.T) {
	Convey("FormatMillis", t, func() {
		So(FormatMillis(0), ShouldEqual, "0:00")
		So(FormatMillis(9_999), ShouldEqual, "0:09")
		So(FormatMillis(65_000), ShouldEqual, "1:05")
		So(FormatMillis(120_000), ShouldEqual, "2:00")
		So(FormatMillis(-1), ShouldEqual, "0:00")
	})
}

func TestDelete(t *testing.T) {
	Convey("Given a directory with a file", t, func() {
		fs := filesystem.API()
		lo.Must0(fs.MkdirAll("/work/logs", 0755))
		lo.Must0(fs.WriteFile("/work/logs/a.log", []byte("x"), 0644))

		Convey("Delete should remove the tree", func() {
			So(Delete("/work"), ShouldBeNil)
			exists, err := fs.Exists("/work/logs/a.log")
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
		})

		Convey("Delete should fail for a missing path", func() {
			So(Delete("/nope"), ShouldNotBeNil)
		})
	})
}

func TestStack(t *testing.T) {
	Convey("Stack", t, func() {
		var s Stack[int]
		s.Push(1)
		s.Push(2)
		So(s.Len(), ShouldEqual, 2)
		So(s.Peek(), ShouldEqual, 2)
		So(s.Pop(), ShouldEqual, 2)
		So(s.Pop(), ShouldEqual, 1)
		So(s.Pop(), ShouldEqual, 0)
		s.Push(3)
		s.Clear()
		So(s.Len(), ShouldEqual, 0)
	})
}
