package swapcore

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
)

var (
	routerMetaData = &bind.MetaData{
		ABI: `[
  {
    "type": "function",
    "name": "swapExactTokensForTokens",
    "stateMutability": "nonpayable",
    "inputs": [
      {"internalType": "uint256", "name": "amountIn", "type": "uint256"},
      {"internalType": "uint256", "name": "amountOutMin", "type": "uint256"},
      {"internalType": "address[]", "name": "path", "type": "address[]"},
      {"internalType": "address", "name": "to", "type": "address"},
      {"internalType": "uint256", "name": "deadline", "type": "uint256"}
    ],
    "outputs": [{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}]
  }
]`,
	}
	erc20MetaData = &bind.MetaData{
		ABI: `[
  {"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]}
]`,
	}

	routerABI *abi.ABI
	erc20ABI  *abi.ABI
)

func init() {
	var err error
	routerABI, err = routerMetaData.GetAbi()
	if err != nil {
		panic(err)
	}
	erc20ABI, err = erc20MetaData.GetAbi()
	if err != nil {
		panic(err)
	}
}
