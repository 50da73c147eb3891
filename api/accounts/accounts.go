// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/relay/api/utils"
	"github.com/vechain/relay/engine"
	"github.com/vechain/relay/relay"
)

type Account struct {
	Balance math.HexOrDecimal256 `json:"balance"`
}

type AmountRequest struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Accounts struct {
	engine *engine.Engine
	auth   *utils.Authenticator
}

func New(engine *engine.Engine, auth *utils.Authenticator) *Accounts {
	return &Accounts{engine, auth}
}

func parseAddress(req *http.Request) (relay.Address, error) {
	addr, err := relay.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return relay.Address{}, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return *addr, nil
}

func (a *Accounts) writeAccount(w http.ResponseWriter, addr relay.Address) error {
	balance, err := a.engine.Balance(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{Balance: math.HexOrDecimal256(*balance)})
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	return a.writeAccount(w, addr)
}

// handleTransfer serves deposit and withdraw. Only withdraw is signed by the account.
func (a *Accounts) handleTransfer(transfer func(relay.Address, *big.Int) error, signed bool) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		addr, err := parseAddress(req)
		if err != nil {
			return err
		}
		if signed {
			signer, err := a.auth.Authenticate(req)
			if err != nil {
				return err
			}
			if err := utils.Authorize(signer, addr, "account"); err != nil {
				return err
			}
		}
		var body AmountRequest
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		if body.Amount == nil {
			return utils.BadRequest(errors.New("body: amount required"))
		}
		if err := transfer(addr, (*big.Int)(body.Amount)); err != nil {
			return err
		}
		return a.writeAccount(w, addr)
	}
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/deposit").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}/deposit").
		HandlerFunc(utils.WrapHandlerFunc(a.handleTransfer(a.engine.Deposit, false)))
	sub.Path("/{address}/withdraw").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(a.handleTransfer(a.engine.Withdraw, true)))
}
