package cpu

import (
	"fmt"

	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// ConvTranspose2D performs the adjoint (gradient) of Conv2D, used for
// upsampling. It scatters each input element through the kernel instead of
// gathering windows.
//
// Input shape:  [batch, height, width, in_channels]
// Kernel shape: [kernel_h, kernel_w, in_channels, out_channels]
// Output shape: [batch, outSize[0], outSize[1], out_channels]
//
// stride is [strideH, strideW]; pad is [top, bottom, left, right] in terms
// of the equivalent forward convolution, and outSize is the output spatial
// size resolved by the calling layer from its padding mode:
//
//	out[oh, ow] += in[ih, iw] * kernel[ki, kj]
//	where oh = ih*strideH + ki - padTop, ow = iw*strideW + kj - padLeft
//
// Positions falling outside outSize are dropped, which mirrors the cropping
// the forward convolution's padding would have introduced.
func (cpu *CPUBackend) ConvTranspose2D(input, kernel *tensor.RawTensor, stride [2]int, pad [4]int, outSize [2]int) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("convtranspose2d: input must be 4D [N,H,W,C], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("convtranspose2d: kernel must be 4D [K_h,K_w,C_in,C_out], got %dD", len(kernelShape)))
	}
	if stride[0] <= 0 || stride[1] <= 0 {
		panic(fmt.Sprintf("convtranspose2d: invalid stride %v", stride))
	}
	if outSize[0] <= 0 || outSize[1] <= 0 {
		panic(fmt.Sprintf("convtranspose2d: invalid output size %v", outSize))
	}

	n := inputShape[0]
	h := inputShape[1]
	w := inputShape[2]
	cIn := inputShape[3]
	kh := kernelShape[0]
	kw := kernelShape[1]
	cInK := kernelShape[2]
	cOut := kernelShape[3]

	if cIn != cInK {
		panic(fmt.Sprintf("convtranspose2d: input channels %d != kernel channels %d", cIn, cInK))
	}

	hOut := outSize[0]
	wOut := outSize[1]

	output, err := tensor.NewRaw(tensor.Shape{n, hOut, wOut, cOut}, input.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("convtranspose2d: failed to create output tensor: %v", err))
	}

	switch input.DType() {
	case tensor.Float32:
		convTranspose2dKernel(output.AsFloat32(), input.AsFloat32(), kernel.AsFloat32(),
			n, h, w, cIn, kh, kw, cOut, hOut, wOut, stride, pad)
	case tensor.Float64:
		convTranspose2dKernel(output.AsFloat64(), input.AsFloat64(), kernel.AsFloat64(),
			n, h, w, cIn, kh, kw, cOut, hOut, wOut, stride, pad)
	default:
		panic(fmt.Sprintf("convtranspose2d: unsupported dtype %s", input.DType()))
	}

	return output
}

func convTranspose2dKernel[T tensor.DType](out, in, wgt []T, n, h, w, cIn, kh, kw, cOut, hOut, wOut int, stride [2]int, pad [4]int) {
	for b := 0; b < n; b++ {
		for ih := 0; ih < h; ih++ {
			for iw := 0; iw < w; iw++ {
				inBase := ((b*h+ih)*w + iw) * cIn

				for ki := 0; ki < kh; ki++ {
					oh := ih*stride[0] + ki - pad[0]
					if oh < 0 || oh >= hOut {
						continue
					}
					for kj := 0; kj < kw; kj++ {
						ow := iw*stride[1] + kj - pad[2]
						if ow < 0 || ow >= wOut {
							continue
						}
						outBase := ((b*hOut+oh)*wOut + ow) * cOut
						wgtBase := (ki*kw + kj) * cIn * cOut
						for c := 0; c < cIn; c++ {
							v := in[inBase+c]
							if v == 0 {
								continue
							}
							wRow := wgtBase + c*cOut
							for f := 0; f < cOut; f++ {
								out[outBase+f] += v * wgt[wRow+f]
							}
						}
					}
				}
			}
		}
	}
}
