package jobs

import "context"

func run() {
	_ = context.Background()
}
