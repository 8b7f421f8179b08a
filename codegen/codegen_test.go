//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpst-lang/mpstgo/action"
	"github.com/mpst-lang/mpstgo/errs"
	"github.com/mpst-lang/mpstgo/ltype"
)

func send(peer, label string, payloads []action.Payload, cont ltype.Type) ltype.Type {
	return &ltype.Msg{Action: action.New(peer+"_sender", peer, action.Send, label, payloads), Cont: cont}
}

func recv(peer, label string, payloads []action.Payload, cont ltype.Type) ltype.Type {
	return &ltype.Msg{Action: action.New(peer+"_recver", peer, action.Recv, label, payloads), Cont: cont}
}

func TestGenerateLinearProtocol(t *testing.T) {
	locals := map[string]ltype.Type{
		"Buyer": send("Seller", "quote", []action.Payload{{Name: "item", Type: "string"}},
			recv("Seller", "price", []action.Payload{{Name: "cents", Type: "int"}}, ltype.End{})),
		"Seller": recv("Buyer", "quote", []action.Payload{{Name: "item", Type: "string"}},
			send("Buyer", "price", []action.Payload{{Name: "cents", Type: "int"}}, ltype.End{})),
	}

	out, err := Generate("negotiate", locals, []string{"Buyer", "Seller"},
		WithPackageName("negotiate"),
		WithRootPkg("example.com/negotiate"))
	require.NoError(t, err)

	for _, name := range []string{
		"messages/messages.go",
		"channels/channels.go",
		"callbacks/callbacks.go",
		"results/results.go",
		"roles/buyer.go",
		"roles/seller.go",
		"host.go",
	} {
		src, ok := out.Files[name]
		require.Truef(t, ok, "missing generated file %s", name)
		require.NotEmpty(t, src)
	}

	messages := string(out.Files["messages/messages.go"])
	require.Contains(t, messages, "type Quote struct")
	require.Contains(t, messages, "type Price struct")
	require.Contains(t, messages, "Item string")
	require.Contains(t, messages, "Cents int")

	channels := string(out.Files["channels/channels.go"])
	require.Contains(t, channels, "func NewChannels() *Channels")

	callbacks := string(out.Files["callbacks/callbacks.go"])
	require.Contains(t, callbacks, "BuyerCallbacks interface")
	require.Contains(t, callbacks, "ProduceQuote() (messages.Quote, error)")
	require.Contains(t, callbacks, "HandlePrice(messages.Price) error")
	require.Contains(t, callbacks, "ChooseBranch(options []string) (string, error)")
	require.Contains(t, callbacks, "Done() (results.BuyerResult, error)")

	results := string(out.Files["results/results.go"])
	require.Contains(t, results, "type BuyerResult = any")
	require.Contains(t, results, "type SellerResult = any")

	buyer := string(out.Files["roles/buyer.go"])
	require.Contains(t, buyer, "package roles")
	require.Contains(t, buyer, "func RunBuyer(")
	require.Contains(t, buyer, "cb.ProduceQuote()")
	require.Contains(t, buyer, "cb.HandlePrice(")
	require.Contains(t, buyer, "return cb.Done()")

	host := string(out.Files["host.go"])
	require.Contains(t, host, "package negotiate")
	require.Contains(t, host, "errgroup")
	require.Contains(t, host, "type Host interface")
	require.Contains(t, host, "NewBuyerCallbacks() callbacks.BuyerCallbacks")
	require.Contains(t, host, "DeliverBuyerResult(results.BuyerResult)")
	require.Contains(t, host, "func Run(h Host) error")
}

func TestGenerateRecursiveProtocolEmitsGotoLoop(t *testing.T) {
	// Pinger repeatedly chooses between sending "ping" (looping) and
	// sending "stop" (ending); Ponger always receives and loops/ends to
	// match.
	pingerLoop := &ltype.Rec{TVar: "t", ID: 0}
	pingerBody := &ltype.Choice{
		DecidedBy: "Pinger",
		Branches: []ltype.Type{
			send("Ponger", "ping", nil, &ltype.Var{TVar: "t", BinderID: 0}),
			send("Ponger", "stop", nil, ltype.End{}),
		},
	}
	pingerLoop.Body = pingerBody

	pongerLoop := &ltype.Rec{TVar: "t", ID: 0}
	pongerBody := &ltype.Choice{
		DecidedBy: "Pinger",
		Branches: []ltype.Type{
			recv("Pinger", "ping", nil, &ltype.Var{TVar: "t", BinderID: 0}),
			recv("Pinger", "stop", nil, ltype.End{}),
		},
	}
	pongerLoop.Body = pongerBody

	locals := map[string]ltype.Type{
		"Pinger": pingerLoop,
		"Ponger": pongerLoop,
	}

	out, err := Generate("pingpong", locals, []string{"Pinger", "Ponger"},
		WithPackageName("pingpong"),
		WithRootPkg("example.com/pingpong"))
	require.NoError(t, err)

	pinger := string(out.Files["roles/pinger.go"])
	require.Contains(t, pinger, "cb.ChooseBranch(")
	require.True(t, strings.Contains(pinger, "goto "), "expected a goto in recursive role body:\n%s", pinger)

	ponger := string(out.Files["roles/ponger.go"])
	require.Contains(t, ponger, "env.Label")
	require.True(t, strings.Contains(ponger, "goto "), "expected a goto in recursive role body:\n%s", ponger)
}

func TestGenerateRejectsOverloadedLabel(t *testing.T) {
	// Two branches of the same choice use the label "go" with different
	// payload shapes; code generation cannot tell them apart.
	locals := map[string]ltype.Type{
		"A": &ltype.Choice{
			DecidedBy: "A",
			Branches: []ltype.Type{
				send("B", "go", []action.Payload{{Name: "n", Type: "int"}}, ltype.End{}),
				send("B", "go", []action.Payload{{Name: "s", Type: "string"}}, ltype.End{}),
			},
		},
		"B": &ltype.Choice{
			DecidedBy: "A",
			Branches: []ltype.Type{
				recv("A", "go", []action.Payload{{Name: "n", Type: "int"}}, ltype.End{}),
				recv("A", "go", []action.Payload{{Name: "s", Type: "string"}}, ltype.End{}),
			},
		},
	}

	_, err := Generate("overload", locals, []string{"A", "B"})
	require.Error(t, err)
	var want *errs.InconsistentChoiceLabel
	require.ErrorAs(t, err, &want)
}
