package checkout

import "github.com/shopspring/decimal"

// DeliveryMethod is one of the fixed storefront delivery choices.
type DeliveryMethod string

const (
	DeliveryPickup  DeliveryMethod = "pickup"
	DeliveryCourier DeliveryMethod = "courier"
	DeliveryPost    DeliveryMethod = "post"
	DeliveryCDEK    DeliveryMethod = "cdek"
)

// DeliveryOption describes a delivery method for display.
type DeliveryOption struct {
	Method      DeliveryMethod
	Title       string
	Description string
	ETA         string
	Cost        decimal.Decimal
}

var deliveryOptions = map[DeliveryMethod]DeliveryOption{
	DeliveryPickup: {
		Method:      DeliveryPickup,
		Title:       "Самовывоз",
		Description: "Забрать из нашего магазина по адресу: ул. Спортивная, д. 10",
		ETA:         "1-2 дня",
		Cost:        decimal.Zero,
	},
	DeliveryCourier: {
		Method:      DeliveryCourier,
		Title:       "Курьерская доставка",
		Description: "Доставка курьером по Москве и области",
		ETA:         "1-3 дня",
		Cost:        decimal.NewFromInt(300),
	},
	DeliveryPost: {
		Method:      DeliveryPost,
		Title:       "Почта России",
		Description: "Доставка в отделение Почты России",
		ETA:         "5-14 дней",
		Cost:        decimal.NewFromInt(250),
	},
	DeliveryCDEK: {
		Method:      DeliveryCDEK,
		Title:       "СДЭК",
		Description: "Доставка в пункт выдачи СДЭК",
		ETA:         "3-7 дней",
		Cost:        decimal.NewFromInt(350),
	},
}

// OptionFor returns the option for a method, falling back to courier delivery
// for anything unrecognized.
func OptionFor(method DeliveryMethod) DeliveryOption {
	if option, ok := deliveryOptions[method]; ok {
		return option
	}
	return deliveryOptions[DeliveryCourier]
}

// PaymentMethod is one of the fixed storefront payment choices.
type PaymentMethod string

const (
	PaymentCard    PaymentMethod = "card"
	PaymentCash    PaymentMethod = "cash"
	PaymentInvoice PaymentMethod = "invoice"
)

var paymentBlurbs = map[PaymentMethod]string{
	PaymentCard:    "Оплата банковской картой онлайн",
	PaymentCash:    "Оплата наличными при получении",
	PaymentInvoice: "Безналичный расчет для юридических лиц",
}

// PaymentBlurb returns the explanatory sentence for a payment method, blank
// for anything unrecognized.
func PaymentBlurb(method PaymentMethod) string {
	return paymentBlurbs[method]
}
