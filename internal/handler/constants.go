package handler

// Operation names, used in logs and as the conflict metric label
const (
	opBrewPotion     = "alchemy.brew"
	opCreateExchange = "exchange.create"
	opAcceptExchange = "exchange.accept"
	opCancelExchange = "exchange.cancel"
	opListExchange   = "exchange.list"
	opQuoteExchange  = "exchange.quote"
	opPurchase       = "shop.purchase"
	opRestock        = "shop.restock"
	opWithdrawTill   = "shop.withdraw"
	opGetShop        = "shop.get"
)

// Success messages for API responses
const (
	MsgPotionBrewed      = "Potion brewed"
	MsgExchangeCreated   = "Exchange request created"
	MsgExchangeAccepted  = "Exchange completed"
	MsgExchangeCancelled = "Exchange request cancelled"
	MsgItemPurchased     = "Purchase complete"
	MsgItemRestocked     = "Item restocked"
	MsgTillWithdrawn     = "Till withdrawn"
)

// Path and query parameter names
const (
	ParamRequestID     = "requestID"
	ParamShopID        = "shopID"
	QueryFrom          = "from"
	QueryTo            = "to"
	QueryAmount        = "amount"
	QueryIncludeHidden = "includeHidden"
)
