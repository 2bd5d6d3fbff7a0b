package controllers

import "context"

func handle(parent context.Context) {
	_ = context.Background() // want `context.Background in http handler package`
	_ = context.TODO()       // want `context.TODO in http handler package`
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	_ = ctx
}
