package services

import (
	"context"
	"faceboobs/shared/env"
	"faceboobs/shared/logger"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// contentContractABI covers the entry points consumed by the platform:
// content registration, purchase, earnings queries and withdrawal. The
// deployed contract is configuration, not logic.
const contentContractABI = `[
  {"type":"function","name":"createContent","stateMutability":"nonpayable","inputs":[{"name":"contentHash","type":"string"},{"name":"price","type":"uint256"},{"name":"isPaid","type":"bool"}],"outputs":[]},
  {"type":"function","name":"buyContent","stateMutability":"payable","inputs":[{"name":"contentId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"creatorEarnings","stateMutability":"view","inputs":[{"name":"creator","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"isRegistered","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"event","name":"ContentCreated","inputs":[{"name":"contentId","type":"uint256","indexed":true},{"name":"creator","type":"address","indexed":true},{"name":"price","type":"uint256","indexed":false}],"anonymous":false},
  {"type":"event","name":"ContentPurchased","inputs":[{"name":"contentId","type":"uint256","indexed":true},{"name":"buyer","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}],"anonymous":false}
]`

// EVMService wraps the RPC client and the bound content contract. The chain
// id is verified once at construction; a node on the wrong chain is refused
// rather than operated against with stale bindings.
type EVMService struct {
	client       *ethclient.Client
	contract     *bind.BoundContract
	contractABI  abi.ABI
	transactOpts *bind.TransactOpts
	gasLimit     uint64
	appLogger    *logger.Logger
}

func NewEVMService(appLogger *logger.Logger) (*EVMService, error) {
	rpcURL := env.EVMRPCURL
	if rpcURL == "" {
		return nil, fmt.Errorf("EVM_RPC_URL environment variable not set")
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		appLogger.Error("Failed to connect to EVM RPC during initialization", zap.String("url", rpcURL), zap.Error(err))
		return nil, fmt.Errorf("%w: dialing %s: %v", ErrChainUnreachable, rpcURL, err)
	}

	chainID, err := client.ChainID(context.Background())
	if err != nil {
		return nil, fmt.Errorf("%w: querying chain id: %v", ErrChainUnreachable, err)
	}
	if chainID.Int64() != env.RequiredChainID {
		appLogger.Error("Connected node reports unexpected chain id",
			zap.Int64("expected", env.RequiredChainID), zap.Int64("actual", chainID.Int64()))
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrWrongChain, env.RequiredChainID, chainID.Int64())
	}

	parsedABI, err := abi.JSON(strings.NewReader(contentContractABI))
	if err != nil {
		return nil, fmt.Errorf("parsing content contract ABI: %w", err)
	}

	contractAddress := common.HexToAddress(env.ContractAddress)
	contract := bind.NewBoundContract(contractAddress, parsedABI, client, client, client)

	service := &EVMService{
		client:      client,
		contract:    contract,
		contractABI: parsedABI,
		gasLimit:    env.PurchaseGasLimit,
		appLogger:   appLogger,
	}

	if env.ServicePrivateKey != "" {
		privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(env.ServicePrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("parsing SERVICE_PRIVATE_KEY: %w", err)
		}
		opts, err := bind.NewKeyedTransactorWithChainID(privateKey, chainID)
		if err != nil {
			return nil, fmt.Errorf("building transactor: %w", err)
		}
		service.transactOpts = opts
		appLogger.Info("EVM service initialized with signer",
			zap.String("signer", opts.From.Hex()),
			zap.String("contract", contractAddress.Hex()),
			zap.Int64("chainId", chainID.Int64()))
	} else {
		appLogger.Warn("EVM service initialized without signer; on-chain writes disabled",
			zap.String("contract", contractAddress.Hex()))
	}

	return service, nil
}

// PurchaseContent submits the buy transaction with the converted value and
// the fixed gas-limit hint, then waits for block inclusion. Returns the final
// transaction hash from the receipt.
func (es *EVMService) PurchaseContent(ctx context.Context, contentID int64, valueWei *big.Int) (string, error) {
	if es.transactOpts == nil {
		return "", ErrSignerUnavailable
	}

	opts := *es.transactOpts
	opts.Context = ctx
	opts.Value = valueWei
	opts.GasLimit = es.gasLimit

	tx, err := es.contract.Transact(&opts, "buyContent", big.NewInt(contentID))
	if err != nil {
		return "", classifyChainError(err)
	}

	es.appLogger.Info("Purchase transaction submitted, awaiting inclusion",
		zap.String("txHash", tx.Hash().Hex()), zap.Int64("contentId", contentID))

	receipt, err := bind.WaitMined(ctx, es.client, tx)
	if err != nil {
		return "", fmt.Errorf("%w: awaiting receipt for %s: %v", ErrChainUnreachable, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("%w: tx %s", ErrTxReverted, receipt.TxHash.Hex())
	}

	return receipt.TxHash.Hex(), nil
}

// RegisterContent registers a paid post with the contract's content registry
// and returns the content id parsed from the creation event.
func (es *EVMService) RegisterContent(ctx context.Context, contentHash string, priceWei *big.Int, isPaid bool) (int64, error) {
	if es.transactOpts == nil {
		return 0, ErrSignerUnavailable
	}

	opts := *es.transactOpts
	opts.Context = ctx
	opts.GasLimit = es.gasLimit

	tx, err := es.contract.Transact(&opts, "createContent", contentHash, priceWei, isPaid)
	if err != nil {
		return 0, classifyChainError(err)
	}

	receipt, err := bind.WaitMined(ctx, es.client, tx)
	if err != nil {
		return 0, fmt.Errorf("%w: awaiting receipt for %s: %v", ErrChainUnreachable, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return 0, fmt.Errorf("%w: tx %s", ErrTxReverted, receipt.TxHash.Hex())
	}

	createdTopic := es.contractABI.Events["ContentCreated"].ID
	for _, logEntry := range receipt.Logs {
		if len(logEntry.Topics) > 1 && logEntry.Topics[0] == createdTopic {
			contentID := new(big.Int).SetBytes(logEntry.Topics[1].Bytes()).Int64()
			es.appLogger.Info("Content registered on-chain",
				zap.Int64("contentId", contentID), zap.String("txHash", receipt.TxHash.Hex()))
			return contentID, nil
		}
	}

	return 0, fmt.Errorf("creation event missing from receipt %s", receipt.TxHash.Hex())
}

// CreatorEarnings reads the withdrawable balance accrued by a creator.
func (es *EVMService) CreatorEarnings(ctx context.Context, creatorAddress string) (*big.Int, error) {
	var out []interface{}
	err := es.contract.Call(&bind.CallOpts{Context: ctx}, &out, "creatorEarnings", common.HexToAddress(creatorAddress))
	if err != nil {
		return nil, classifyChainError(err)
	}
	earnings, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected creatorEarnings result type %T", out[0])
	}
	return earnings, nil
}

// IsRegisteredCreator queries the contract's creator registry.
func (es *EVMService) IsRegisteredCreator(ctx context.Context, creatorAddress string) (bool, error) {
	var out []interface{}
	err := es.contract.Call(&bind.CallOpts{Context: ctx}, &out, "isRegistered", common.HexToAddress(creatorAddress))
	if err != nil {
		return false, classifyChainError(err)
	}
	registered, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected isRegistered result type %T", out[0])
	}
	return registered, nil
}

// Withdraw moves accrued earnings to the signer account.
func (es *EVMService) Withdraw(ctx context.Context) (string, error) {
	if es.transactOpts == nil {
		return "", ErrSignerUnavailable
	}

	opts := *es.transactOpts
	opts.Context = ctx
	opts.GasLimit = es.gasLimit

	tx, err := es.contract.Transact(&opts, "withdraw")
	if err != nil {
		return "", classifyChainError(err)
	}

	receipt, err := bind.WaitMined(ctx, es.client, tx)
	if err != nil {
		return "", fmt.Errorf("%w: awaiting receipt for %s: %v", ErrChainUnreachable, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("%w: tx %s", ErrTxReverted, receipt.TxHash.Hex())
	}
	return receipt.TxHash.Hex(), nil
}

// classifyChainError maps raw node errors onto the purchase failure taxonomy.
func classifyChainError(err error) error {
	message := strings.ToLower(err.Error())
	switch {
	case strings.Contains(message, "insufficient funds"):
		return fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
	case strings.Contains(message, "execution reverted"), strings.Contains(message, "revert"):
		return fmt.Errorf("%w: %v", ErrTxReverted, err)
	case strings.Contains(message, "connection refused"), strings.Contains(message, "timeout"), strings.Contains(message, "no such host"):
		return fmt.Errorf("%w: %v", ErrChainUnreachable, err)
	default:
		return err
	}
}
