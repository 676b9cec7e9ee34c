package factory

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kapildev5262/Token-World/services/contracts"
	"github.com/kapildev5262/Token-World/services/fees"
	"github.com/kapildev5262/Token-World/types"
)

// MaxCollectionMint bounds both the initial mint of a collection and later batch mints
const MaxCollectionMint = 500

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DeployParams is the input of a factory deployment
type DeployParams interface {
	kind() types.FactoryKind
	operation() fees.Operation
	size() *big.Int
	check() error
	pack() ([]byte, error)
}

// TokenParams describes a fungible token deployment
type TokenParams struct {
	Name          string   `json:"name" validate:"required,max=32"`
	Symbol        string   `json:"symbol" validate:"required,max=8"`
	InitialSupply *big.Int `json:"initialSupply"`
	Decimals      uint8    `json:"decimals" validate:"lte=18"`
	IsMintable    bool     `json:"isMintable"`
}

func (p TokenParams) kind() types.FactoryKind   { return types.FungibleFactory }
func (p TokenParams) operation() fees.Operation { return fees.TokenDeploy }
func (p TokenParams) size() *big.Int            { return p.InitialSupply }

func (p TokenParams) check() error {
	if err := validateStruct(p); err != nil {
		return err
	}
	if p.InitialSupply == nil || p.InitialSupply.Sign() <= 0 {
		return types.NewValidationError("initialSupply", "must be greater than zero")
	}
	return nil
}

func (p TokenParams) pack() ([]byte, error) {
	return contracts.PackDeployToken(p.Name, p.Symbol, p.InitialSupply, p.Decimals, p.IsMintable)
}

// CollectionParams describes a non-fungible collection deployment
type CollectionParams struct {
	Name               string   `json:"name" validate:"required,max=32"`
	Symbol             string   `json:"symbol" validate:"required,max=8"`
	BaseURI            string   `json:"baseUri" validate:"max=512"`
	InitialMintSize    *big.Int `json:"initialMintSize"`
	IsMintable         bool     `json:"isMintable"`
	RoyaltyBasisPoints uint16   `json:"royaltyBps" validate:"lte=10000"`
}

func (p CollectionParams) kind() types.FactoryKind   { return types.NonFungibleFactory }
func (p CollectionParams) operation() fees.Operation { return fees.CollectionDeploy }
func (p CollectionParams) size() *big.Int            { return p.InitialMintSize }

func (p CollectionParams) check() error {
	if err := validateStruct(p); err != nil {
		return err
	}
	if err := checkCollectionQuantity("initialMintSize", p.InitialMintSize); err != nil {
		return err
	}
	return nil
}

func (p CollectionParams) pack() ([]byte, error) {
	return contracts.PackDeployCollection(p.Name, p.Symbol, p.BaseURI, p.InitialMintSize, p.IsMintable, p.RoyaltyBasisPoints)
}

func checkCollectionQuantity(field string, quantity *big.Int) error {
	if quantity == nil || quantity.Sign() <= 0 || quantity.Cmp(big.NewInt(MaxCollectionMint)) > 0 {
		return types.NewValidationError(field, fmt.Sprintf("must be between 1 and %d", MaxCollectionMint))
	}
	return nil
}

// validateStruct runs the struct tags and reports the first violation by its json field name
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return types.ErrValidation.Wrap(err)
	}

	fe := verrs[0]
	var detail string
	switch fe.Tag() {
	case "required":
		detail = "is required"
	case "max":
		detail = fmt.Sprintf("must be at most %s characters", fe.Param())
	case "lte":
		detail = fmt.Sprintf("must be at most %s", fe.Param())
	default:
		detail = fmt.Sprintf("failed %s validation", fe.Tag())
	}
	return types.NewValidationError(fe.Field(), detail)
}
