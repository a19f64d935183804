package ui

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a notifier", t, func() {
		m := &Model{}

		Convey("When nothing was notified", func() {
			Convey("Then the view should be untouched", func() {
				So(m.View("a\nb"), ShouldEqual, "a\nb")
			})
		})

		Convey("When a failure is notified", func() {
			cmd := m.Update(NotifyFailure("Error seeking video")())

			Convey("Then it should be appended to the last line", func() {
				So(cmd, ShouldNotBeNil)
				So(m.Current(), ShouldEqual, "Error seeking video")
				So(m.View("a\nb"), ShouldStartWith, "a\nb  ")
				So(m.View("a\nb"), ShouldContainSubstring, "Error seeking video")
			})

			Convey("And it expires", func() {
				m.Update(ClearNotificationMsg{generation: m.generation})
				So(m.Current(), ShouldBeEmpty)
			})

			Convey("And a newer notification replaces it before the first expires", func() {
				first := m.generation
				m.Update(Notify("Comment posted")())
				m.Update(ClearNotificationMsg{generation: first})

				Convey("Then the stale expiry should not clear the newer one", func() {
					So(m.Current(), ShouldEqual, "Comment posted")
				})
			})
		})

		Convey("When an empty notification arrives", func() {
			cmd := m.Update(NotificationMsg{})
			Convey("Then it should be ignored", func() {
				So(cmd, ShouldBeNil)
				So(m.Current(), ShouldBeEmpty)
			})
		})
	})
}
