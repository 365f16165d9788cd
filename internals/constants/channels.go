package constants

// Kode channel pembayaran (virtual account) yang didukung.
// Selaras dengan bank_transfer channel di Midtrans.
const (
	ChannelBCAVA     = "bca_va"
	ChannelBNIVA     = "bni_va"
	ChannelBRIVA     = "bri_va"
	ChannelCIMBVA    = "cimb_va"
	ChannelPermataVA = "permata_va"
)

var AllowedVAChannels = []string{
	ChannelBCAVA,
	ChannelBNIVA,
	ChannelBRIVA,
	ChannelCIMBVA,
	ChannelPermataVA,
}

func IsAllowedVAChannel(code string) bool {
	for _, c := range AllowedVAChannels {
		if c == code {
			return true
		}
	}
	return false
}
