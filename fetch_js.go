package main

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"
	"time"
)

const fetchTimeout = 30 * time.Second

var (
	errNotFound  = errors.New("not found")
	errFetch     = errors.New("failed to fetch")
	errFetchBody = errors.New("failed to read response body")
	abortCtrlJS  = js.Global().Get("AbortController")
	uint8ArrayJS = js.Global().Get("Uint8Array")
	fetchFuncJS  = js.Global().Get("fetch")
)

type fetchResult struct {
	b   []byte
	err error
}

// fetchGet downloads path. The request is aborted when ctx is done.
func fetchGet(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	abort := abortCtrlJS.New()
	ch := make(chan fetchResult, 1)
	done := func(r fetchResult) {
		select {
		case ch <- r:
		default:
		}
	}

	// Callbacks may still fire after an abort, so they are never released.
	fn := func(f func(args []js.Value) interface{}) js.Func {
		return js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			return f(args)
		})
	}

	onResponse := fn(func(args []js.Value) interface{} {
		res := args[0]
		if res.Get("ok").Bool() {
			return res.Call("arrayBuffer")
		}
		if res.Get("status").Int() == 404 {
			done(fetchResult{err: fmt.Errorf("%s: %w", path, errNotFound)})
		} else {
			done(fetchResult{err: fmt.Errorf("%s: %w: %s", path, errFetch, res.Get("statusText").String())})
		}
		return nil
	})
	onBody := fn(func(args []js.Value) interface{} {
		if args[0].IsUndefined() || args[0].IsNull() {
			return nil
		}
		array := uint8ArrayJS.New(args[0])
		b := make([]byte, array.Get("byteLength").Int())
		js.CopyBytesToGo(b, array)
		done(fetchResult{b: b})
		return nil
	})
	onError := fn(func(args []js.Value) interface{} {
		done(fetchResult{err: fmt.Errorf("%s: %w", path, errFetch)})
		return nil
	})
	onBodyError := fn(func(args []js.Value) interface{} {
		done(fetchResult{err: fmt.Errorf("%s: %w", path, errFetchBody)})
		return nil
	})

	fetchFuncJS.Invoke(path, map[string]interface{}{
		"credentials": "include",
		"signal":      abort.Get("signal"),
	}).Call("then", onResponse, onError).Call("then", onBody, onBodyError)

	select {
	case r := <-ch:
		return r.b, r.err
	case <-ctx.Done():
		abort.Call("abort")
		return nil, ctx.Err()
	}
}
