package cmd

import (
	"testing"

	"github.com/goflix/goflix/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolveTitle(t *testing.T) {
	Convey("Given the command line of play", t, func() {
		filesystem.SetMemMapFs()

		Convey("When a url is given", func() {
			title, err := resolveTitle([]string{" https://example.com/clips/intro.mp4 "}, "")
			Convey("Then it should be played under its file name", func() {
				So(err, ShouldBeNil)
				So(title.VideoURL, ShouldEqual, "https://example.com/clips/intro.mp4")
				So(title.Title, ShouldEqual, "intro.mp4")
			})
		})

		Convey("When a url and a title are given", func() {
			title, err := resolveTitle([]string{"https://example.com/intro.mp4"}, "Intro")
			Convey("Then the title should name it", func() {
				So(err, ShouldBeNil)
				So(title.Title, ShouldEqual, "Intro")
			})
		})

		Convey("When a catalog title is named", func() {
			title, err := resolveTitle(nil, "sintel")
			Convey("Then it should be found regardless of case", func() {
				So(err, ShouldBeNil)
				So(title.Title, ShouldEqual, "Sintel")
				So(title.VideoURL, ShouldNotBeEmpty)
			})
		})

		Convey("When an unknown title is named", func() {
			_, err := resolveTitle(nil, "no such film")
			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When nothing is given", func() {
			title, err := resolveTitle(nil, "")
			Convey("Then the session should fall back to the default media", func() {
				So(err, ShouldBeNil)
				So(title.VideoURL, ShouldBeEmpty)
			})
		})
	})
}
