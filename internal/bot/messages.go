package bot

// User-facing texts. The bot serves one branch in one language; there is
// no translation layer.
const (
	msgAskPhone = "Iltimos, telefon raqamingizni yuboring:"

	msgAskOrderType = "Endi xizmat turini tanlang:"

	msgAskAddress = "Manzilni yuborish uchun *Lokatsiyani yuborish* tugmasini bosing " +
		"yoki manzilni *matn ko'rinishida yozib yuboring*:"

	msgDeliveryChosen = "📍 *Yetkazib berish tanlandi*"
	msgPickupChosen   = "🛍 *Olib ketish tanlandi*"

	msgPickupAddress = "Filialdan olib ketish"

	msgInfoSaved = "✅ Ma'lumotlaringiz saqlandi.\n\n" +
		"Endi \"🍴 Menyu\" tugmasi orqali buyurtma bering 👇"

	msgAddressAccepted = "✅ Manzil qabul qilindi!\n\n" +
		"Endi \"🍴 Menyu\" tugmasi orqali buyurtma bering 👇"

	msgAddressAcceptedText = "✅ Manzil qabul qilindi: *%s*\n\n" +
		"Endi \"🍴 Menyu\" tugmasi orqali buyurtma berishingiz mumkin."

	msgCartReceived = "🛒 Savatingizni qabul qildik!\n\n" +
		"Buyurtmani yakunlash uchun, iltimos, ro'yxatdan o'tishni yakunlang."

	msgCartEmpty = "❌ Savatingiz bo'sh. Iltimos, menyudan tanlang."

	msgCartInvalid = "❌ Savatda xatolik yuz berdi. Iltimos, qayta urinib ko'ring."

	msgPayloadError = "❌ Buyurtma ma'lumotlarini o'qishda xatolik yuz berdi."

	msgUserNotFound = "❌ Foydalanuvchi topilmadi. /start buyrug'ini bosing."

	msgProcessingError = "❌ So'rovni qayta ishlashda xatolik yuz berdi. Qayta urinib ko'ring."

	msgViewCartHint = "Savatdagi mahsulotlarni ko'rish va buyurtma berish uchun " +
		"\"🍴 Menyu\" tugmasini bosing."

	msgOrderResolved = "Buyurtma allaqachon ko'rib chiqilgan yoki topilmadi"

	msgCustomerPhone = "📞 Mijoz: +%s"

	toastAccepted = "✅ Qabul qilindi"
	toastRejected = "❌ Rad etildi"

	statusMarkAccepted = "\n\n✅ *STATUS: QABUL QILINDI*"
	statusMarkRejected = "\n\n❌ *STATUS: RAD ETILDI*"
)
