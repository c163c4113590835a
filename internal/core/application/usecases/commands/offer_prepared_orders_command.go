package commands

import (
	"errors"

	"orderapi/internal/pkg/guard"
)

var ErrOfferPreparedOrdersCommandIsNotConstructed = errors.New(
	"OfferPreparedOrdersCommand must be created via NewOfferPreparedOrdersCommand constructor",
)

// OfferPreparedOrdersCommand re-offers every prepared order still waiting
// for a courier.
type OfferPreparedOrdersCommand struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

func NewOfferPreparedOrdersCommand() OfferPreparedOrdersCommand {
	return OfferPreparedOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c OfferPreparedOrdersCommand) Validate() error {
	return c.guard.Validate(ErrOfferPreparedOrdersCommandIsNotConstructed)
}
