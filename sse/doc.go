// Package sse writes Server-Sent Events to an HTTP response.
//
// A Stream is opened on a flushing ResponseWriter and every Send is flushed
// immediately, so clients see pipeline values as they reach the terminal:
//
//	stream, err := sse.Open(w)
//	if err != nil {
//	    return err
//	}
//	stream.Send(sse.EventValue, v)
package sse
