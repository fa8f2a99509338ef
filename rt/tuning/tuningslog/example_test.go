package tuningslog_test

import (
	"fmt"
	"log/slog"

	"github.com/evan-idocoding/restmachine/rt/tuning"
	"github.com/evan-idocoding/restmachine/rt/tuning/tuningslog"
)

func ExampleLevelVar() {
	tu := tuning.New()
	ev, lv, _ := tuningslog.LevelVar(tu, "log.level", slog.LevelInfo)

	_ = ev.Set("warning")
	fmt.Println(ev.Get(), lv.Level())

	// Output:
	// warn WARN
}
