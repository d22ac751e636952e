// Package testlink is a client for TestLink's XML-RPC remote API. Every
// call carries the pre-shared devKey. The Client interface covers only the
// operations the prompt facade dispatches to; DemoClient serves canned data
// for running without a TestLink instance.
package testlink
